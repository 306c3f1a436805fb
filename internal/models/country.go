package models

// Country - элемент справочника стран
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
