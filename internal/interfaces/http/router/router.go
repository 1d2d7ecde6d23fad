package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pharmstock/backend/internal/interfaces/http/handler"
	"github.com/pharmstock/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler the router wires up
type Handlers struct {
	Health        *handler.HealthHandler
	Catalog       *handler.CatalogHandler
	Partner       *handler.PartnerHandler
	Stock         *handler.StockHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	SaleOrder     *handler.SaleOrderHandler
	Settlement    *handler.SettlementHandler
	Settings      *handler.SettingsHandler
}

// New builds the gin engine with middleware and all API routes
func New(log *zap.Logger, h Handlers) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.CORS(),
	)

	api := engine.Group("/api/v1")

	api.GET("/health", h.Health.Check)

	companies := api.Group("/companies")
	{
		companies.POST("", h.Catalog.CreateCompany)
		companies.GET("", h.Catalog.ListCompanies)
		companies.GET("/:id", h.Catalog.GetCompany)
		companies.PUT("/:id", h.Catalog.UpdateCompany)
		companies.DELETE("/:id", h.Catalog.DeleteCompany)
	}

	products := api.Group("/products")
	{
		products.POST("", h.Catalog.CreateProduct)
		products.GET("", h.Catalog.ListProducts)
		products.GET("/:id", h.Catalog.GetProduct)
		products.PUT("/:id", h.Catalog.UpdateProduct)
		products.DELETE("/:id", h.Catalog.DeleteProduct)
	}

	suppliers := api.Group("/suppliers")
	{
		suppliers.POST("", h.Partner.CreateSupplier)
		suppliers.GET("", h.Partner.ListSuppliers)
		suppliers.GET("/:id", h.Partner.GetSupplier)
		suppliers.PUT("/:id", h.Partner.UpdateSupplier)
		suppliers.DELETE("/:id", h.Partner.DeleteSupplier)
	}

	customers := api.Group("/customers")
	{
		customers.POST("", h.Partner.CreateCustomer)
		customers.GET("", h.Partner.ListCustomers)
		customers.GET("/:id", h.Partner.GetCustomer)
		customers.PUT("/:id", h.Partner.UpdateCustomer)
		customers.DELETE("/:id", h.Partner.DeleteCustomer)
	}

	stock := api.Group("/stock")
	{
		stock.POST("", h.Stock.AddStock)
		stock.GET("", h.Stock.ListBatches)
		stock.GET("/low", h.Stock.ListLowStock)
		stock.GET("/:id", h.Stock.GetBatch)
		stock.POST("/:id/remove", h.Stock.RemoveStock)
		stock.DELETE("/:id", h.Stock.DeleteBatch)
	}

	purchaseOrders := api.Group("/purchase-orders")
	{
		purchaseOrders.POST("", h.PurchaseOrder.Create)
		purchaseOrders.GET("", h.PurchaseOrder.List)
		purchaseOrders.GET("/:id", h.PurchaseOrder.Get)
		purchaseOrders.PATCH("/:id/status", h.PurchaseOrder.UpdateStatus)
		purchaseOrders.PATCH("/:id/items/:itemID", h.PurchaseOrder.UpdateItemQuantity)
		purchaseOrders.DELETE("/:id/items/:itemID", h.PurchaseOrder.RemoveItem)
		purchaseOrders.DELETE("/:id", h.PurchaseOrder.Delete)
	}

	saleOrders := api.Group("/sale-orders")
	{
		saleOrders.POST("", h.SaleOrder.Create)
		saleOrders.GET("", h.SaleOrder.List)
		saleOrders.GET("/:id", h.SaleOrder.Get)
		saleOrders.PATCH("/:id/status", h.SaleOrder.UpdateStatus)
		saleOrders.DELETE("/:id/items/:itemID", h.SaleOrder.RemoveItem)
		saleOrders.DELETE("/:id", h.SaleOrder.Delete)
	}

	settlements := api.Group("/settlements")
	{
		settlements.GET("/unreconciled", h.Settlement.ListUnreconciled)
		settlements.GET("/:kind/:id", h.Settlement.GetByOrder)
	}

	settings := api.Group("/settings")
	{
		settings.GET("", h.Settings.Get)
		settings.PUT("", h.Settings.Update)
	}

	return engine
}
