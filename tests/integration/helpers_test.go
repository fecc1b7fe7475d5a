package integration

import (
	productionapp "github.com/fabshop/backend/internal/application/production"
)

func productionStatusReq(status string) productionapp.UpdateOrderStatusRequest {
	return productionapp.UpdateOrderStatusRequest{Status: status}
}
