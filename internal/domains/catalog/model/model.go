package model

const (
	TableCategories = "categories"
	TableResources  = "resources"
	TablePrincipals = "principals"

	EntityCategory  = "category"
	EntityResource  = "resource"
	EntityPrincipal = "principal"

	FieldID         = "id"
	FieldName       = "name"
	FieldCategoryID = "category_id"
	FieldIsActive   = "is_active"
)

type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type Resource struct {
	ID           int64  `db:"id"`
	CategoryID   int64  `db:"category_id"`
	Name         string `db:"name"`
	IsActive     bool   `db:"is_active"`
	CategoryName string `column:"name"       db:"category_name" table:"categories"`
}

func (Resource) GetJoinQuery() string {
	return "JOIN categories ON categories.id = resources.category_id"
}

// Principal is a person allowed to hold reservations. Unknown and blocked
// principals are treated alike.
type Principal struct {
	ID          string `db:"id"`
	FullName    string `db:"full_name"`
	Email       string `db:"email"`
	IsBlocked   bool   `db:"is_blocked"`
	NotifyEmail bool   `db:"notify_email"`
}

func (p Principal) Active() bool {
	return p.ID != "" && !p.IsBlocked
}
