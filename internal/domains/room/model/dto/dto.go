package dto

import (
	"math"
	"travelnest/internal/domains/room/model"
	"travelnest/shared"
	gDto "travelnest/shared/dto"
	gModel "travelnest/shared/model"
	"travelnest/shared/timezone"
)

type CreateRoomRequest struct {
	HotelID   int64   `json:"hotel_id"  validate:"required,gt=0"`
	RoomType  string  `json:"room_type" validate:"required,oneof=single double suite"`
	Price     float64 `json:"price"     validate:"gte=0"`
	Available int     `json:"available" validate:"gte=0"`
}

func (c *CreateRoomRequest) ToModel(actor string) model.Room {
	return model.Room{
		HotelID:   c.HotelID,
		RoomType:  c.RoomType,
		Price:     c.Price,
		Available: c.Available,
		Metadata:  gModel.NewMetadata(actor, timezone.Now()),
	}
}

// UpdateRoomRequest is the administrator's edit. Available is set as given,
// which is the only manual way to raise capacity. When ExpectedAvailable is
// sent the edit applies only while the room still has that many units, so a
// booking committed after the admin read the room is not overwritten.
type UpdateRoomRequest struct {
	RoomType          string   `db:"room_type" json:"room_type"          validate:"omitempty,oneof=single double suite"`
	Price             *float64 `db:"price"     json:"price"              validate:"omitempty,gte=0"`
	Available         *int     `db:"available" json:"available"          validate:"omitempty,gte=0"`
	ExpectedAvailable *int     `db:"-"         json:"expected_available" validate:"omitempty,gte=0"`
}

// Filter matches the room being edited, guarded by ExpectedAvailable when set.
func (r UpdateRoomRequest) Filter(id int64) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}

	if r.ExpectedAvailable != nil {
		filters = append(filters, gDto.Filter{
			ArgName:  "expected_available",
			Field:    model.FieldAvailable,
			Value:    *r.ExpectedAvailable,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}

type RoomResponse struct {
	ID              int64   `json:"id"`
	HotelID         int64   `json:"hotel_id"`
	HotelName       string  `json:"hotel_name"`
	RoomType        string  `json:"room_type"`
	Price           float64 `json:"price"`
	DiscountPercent float64 `json:"discount_percent"`
	FinalPrice      float64 `json:"final_price"`
	Available       int     `json:"available"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.HotelID = model.HotelID
	r.HotelName = model.HotelName
	r.RoomType = model.RoomType
	r.Price = model.Price
	r.FinalPrice = model.Price
	r.Available = model.Available
	r.Metadata.FromModel(model.Metadata)
}

// ApplyDiscount prices the room with the first discount covering its price.
func (r *RoomResponse) ApplyDiscount(discounts []model.Discount) {
	r.DiscountPercent = 0
	r.FinalPrice = r.Price

	for _, discount := range discounts {
		if discount.Covers(r.Price) {
			r.DiscountPercent = discount.DiscountPercent
			r.FinalPrice = math.Round(r.Price*(100-discount.DiscountPercent)) / 100

			return
		}
	}
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, discounts []model.Discount, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
		r.Rooms[i].ApplyDiscount(discounts)
	}
}

// ListParams are the room list filters accepted on the query string.
type ListParams struct {
	HotelID  int64
	RoomType string
	// OnlyAvailable hides rooms with no units left.
	OnlyAvailable bool
}

func (p ListParams) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if p.HotelID > 0 {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldHotelID,
			Operator: gDto.FilterOperatorEq,
			Value:    p.HotelID,
			Table:    model.TableName,
		})
	}

	if p.RoomType != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldRoomType,
			Operator: gDto.FilterOperatorEq,
			Value:    p.RoomType,
			Table:    model.TableName,
		})
	}

	if p.OnlyAvailable {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldAvailable,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    1,
			Table:    model.TableName,
		})
	}

	return filter
}
