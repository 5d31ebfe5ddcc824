package dto

import (
	"travelnest/internal/domains/user/model"
	"travelnest/shared"
	gDto "travelnest/shared/dto"
)

type UserResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
	Address   string `json:"address"`
	Role      string `json:"role"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.FirstName = model.FirstName
	r.LastName = model.LastName
	r.Email = model.Email
	r.Mobile = model.Mobile
	r.Address = model.Address
	r.Role = model.Role
	r.Metadata.FromModel(model.Metadata)
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

// ListParams filters the user list. Search matches names and email.
type ListParams struct {
	Search string
	Role   string
}

func (p ListParams) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if p.Search != "" {
		search := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorOr}

		for _, field := range []string{model.FieldFirstName, model.FieldLastName, model.FieldEmail} {
			search.Filters = append(search.Filters, gDto.Filter{
				ArgName:  "search_" + field,
				Field:    field,
				Operator: gDto.FilterOperatorLike,
				Value:    p.Search,
				Table:    model.TableName,
			})
		}

		filter.Filters = append(filter.Filters, search)
	}

	if p.Role != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldRole,
			Operator: gDto.FilterOperatorEq,
			Value:    p.Role,
			Table:    model.TableName,
		})
	}

	return filter
}
