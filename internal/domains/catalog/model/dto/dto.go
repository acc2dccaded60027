package dto

import "wsb/internal/domains/catalog/model"

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (r *CategoryResponse) FromModel(m model.Category) {
	r.ID = m.ID
	r.Name = m.Name
}

type ResourceResponse struct {
	ID           int64  `json:"id"`
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
	Name         string `json:"name"`
}

func (r *ResourceResponse) FromModel(m model.Resource) {
	r.ID = m.ID
	r.CategoryID = m.CategoryID
	r.CategoryName = m.CategoryName
	r.Name = m.Name
}

func CategoriesFromModels(models []model.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(models))
	for i, m := range models {
		res[i].FromModel(m)
	}

	return res
}

func ResourcesFromModels(models []model.Resource) []ResourceResponse {
	res := make([]ResourceResponse, len(models))
	for i, m := range models {
		res[i].FromModel(m)
	}

	return res
}
