package list_services

import (
	"net/http"

	"github.com/m04kA/barbershop-booking/internal/api/handlers"
	"github.com/m04kA/barbershop-booking/internal/catalog"
)

// ServiceResponse положение прайс-листа
type ServiceResponse struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Price           int    `json:"price"`
	AcceptsAddons   bool   `json:"acceptsAddons"`
}

// ServiceListResponse прайс-лист и доступные дополнения
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Addons   []string          `json:"addons"`
}

// Handle GET /api/v1/services
func Handle(w http.ResponseWriter, _ *http.Request) {
	services := catalog.Services()
	resp := ServiceListResponse{
		Services: make([]ServiceResponse, 0, len(services)),
		Addons:   []string{catalog.BeardAddon, catalog.WashAddon},
	}
	for _, s := range services {
		resp.Services = append(resp.Services, ServiceResponse{
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
			AcceptsAddons:   s.AcceptsAddons,
		})
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}
