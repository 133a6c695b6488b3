package models

type HoursWindow struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type Restaurant struct {
	ID       string                   `json:"id"`
	Name     LocalizedText            `json:"name"`
	Location LocalizedText            `json:"location"`
	Capacity int                      `json:"capacity"`
	Hours    map[MealType]HoursWindow `json:"hours"`
	Active   bool                     `json:"active"`
}

// OpenFor reports the serving window of a meal, if the restaurant serves it.
func (r Restaurant) OpenFor(meal MealType) (HoursWindow, bool) {
	w, ok := r.Hours[meal]
	return w, ok && w.Open != "" && w.Close != ""
}
