package orders

import "github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"

// validateCreationMethod enforces which identity fields a request must
// carry depending on how the order was created, checked up front so a bad
// request never reaches inventory/customer calls.
func validateCreationMethod(req CreateOrderRequest) error {
	switch req.CreationMethod {
	case CreationVisitaVendedor:
		if req.SellerID == nil {
			return errs.New(errs.ValidationRejected, "seller_id is required when creation method is visita_vendedor")
		}
		if req.VisitID == nil {
			return errs.New(errs.ValidationRejected, "visit_id is required when creation method is visita_vendedor")
		}
	case CreationAppVendedor:
		if req.SellerID == nil {
			return errs.New(errs.ValidationRejected, "seller_id is required when creation method is app_vendedor")
		}
	case CreationAppCliente:
		if req.SellerID != nil {
			return errs.New(errs.ValidationRejected, "seller_id must be absent when creation method is app_cliente")
		}
		if req.VisitID != nil {
			return errs.New(errs.ValidationRejected, "visit_id must be absent when creation method is app_cliente")
		}
	default:
		return errs.Newf(errs.ValidationRejected, "invalid creation method: %s", req.CreationMethod)
	}

	if len(req.Items) == 0 {
		return errs.New(errs.ValidationRejected, "order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return errs.New(errs.ValidationRejected, "item quantity must be greater than zero")
		}
	}

	return nil
}
