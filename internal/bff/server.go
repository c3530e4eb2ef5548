package bff

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/bff/clientapp"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/bff/sellersapp"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/bff/webapp"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/config"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/downstream"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/serviceclient"
)

// MountRoutes wires the three role-scoped BFF surfaces — client-app,
// sellers-app, web — onto srv.APIRouter, each backed by its own
// internal/downstream adapters pointed at the other process roles over
// HTTP, exactly as any other C1 target is reached.
func MountRoutes(srv *httpserver.Server, cfg *config.Config) {
	clientSvcClient := serviceclient.New("client", cfg.ClientURL, time.Duration(cfg.ClientTimeoutMs)*time.Millisecond)
	ordersSvcClient := serviceclient.New("orders", cfg.OrdersURL, time.Duration(cfg.OrdersTimeoutMs)*time.Millisecond)
	sellersSvcClient := serviceclient.New("sellers", cfg.SellersURL, time.Duration(cfg.SellersTimeoutMs)*time.Millisecond)
	inventorySvcClient := serviceclient.New("inventory", cfg.InventoryURL, time.Duration(cfg.InventoryTimeoutMs)*time.Millisecond)

	identity := downstream.NewIdentityClient(clientSvcClient)
	orders := downstream.NewOrdersServiceClient(ordersSvcClient)
	sellers := downstream.NewSellersServiceClient(sellersSvcClient)
	inventory := downstream.NewInventoryListClient(inventorySvcClient)

	clientOrders := clientapp.NewOrdersHandler(srv.Logger, identity, orders)

	sellerVisits := sellersapp.NewVisitsHandler(srv.Logger, identity, sellers)
	sellerOrders := sellersapp.NewOrdersHandler(srv.Logger, identity, orders)

	webSalesPlans := webapp.NewSalesPlansHandler(srv.Logger, sellers)
	webInventories := webapp.NewInventoriesHandler(srv.Logger, inventory)

	srv.APIRouter.Mount("/client-app", clientOrders.Routes())

	sellersAppRouter := chi.NewRouter()
	sellersAppRouter.Use(RequirePrincipal(srv.Logger))
	sellersAppRouter.Use(RequireGroup(srv.Logger, GroupSeller))
	sellerVisits.Mount(sellersAppRouter)
	sellerOrders.Mount(sellersAppRouter)
	srv.APIRouter.Mount("/sellers-app", sellersAppRouter)

	webRouter := chi.NewRouter()
	webRouter.Use(RequirePrincipal(srv.Logger))
	webRouter.Use(RequireGroup(srv.Logger, GroupWeb))
	webSalesPlans.Mount(webRouter)
	webInventories.Mount(webRouter)
	srv.APIRouter.Mount("/web", webRouter)
}
