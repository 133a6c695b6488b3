package models

const (
	RoleStudent = "student"
	RoleStaff   = "staff"
)

const (
	LanguageEnglish = "en"
	LanguagePersian = "fa"
)

func ValidRole(name string) bool {
	return name == RoleStudent || name == RoleStaff
}

func ValidLanguage(lang string) bool {
	return lang == LanguageEnglish || lang == LanguagePersian
}
