package request

import (
	"strings"

	"partner_repairs/internal/domain/entities"
)

type AdvanceVehicleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (r AdvanceVehicleStatusRequest) Next() entities.VehicleStatus {
	return entities.VehicleStatus(strings.ToLower(strings.TrimSpace(r.Status)))
}

type UploadPhotosRequest struct {
	Photos []string `json:"photos" binding:"required,min=1"`
}

func (r UploadPhotosRequest) Refs() []string {
	out := make([]string, 0, len(r.Photos))
	for _, p := range r.Photos {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
