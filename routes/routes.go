package routes

import (
	"tableorder/configs"
	"tableorder/controllers"
	"tableorder/entity"
	"tableorder/middlewares"
	"tableorder/repository"
	"tableorder/services"
	"tableorder/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the process-wide resources the HTTP layer is built from.
type Deps struct {
	DB  *gorm.DB
	Cfg *configs.Config
	Hub *ws.Hub
	// Notify receives every domain event; defaults to Hub.
	Notify services.Notifier
}

func NewEngine(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(), middlewares.CORSMiddleware(d.Cfg.ClientURL))
	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	notify := d.Notify
	if notify == nil {
		if d.Hub != nil {
			notify = d.Hub
		} else {
			notify = services.NopNotifier{}
		}
	}

	// Repositories
	menuRepo := repository.NewMenuRepository(d.DB)
	orderRepo := repository.NewOrderRepository(d.DB)
	tableRepo := repository.NewTableRepository(d.DB)
	staffRepo := repository.NewStaffRepository(d.DB)

	// Services
	authSvc := services.NewAuthService(d.DB, staffRepo, d.Cfg.JWTSecret, d.Cfg.JWTTTL)
	menuSvc := services.NewMenuService(menuRepo)
	orderSvc := services.NewOrderService(d.DB, orderRepo, menuRepo, tableRepo, notify)
	tableSvc := services.NewTableService(tableRepo, notify, d.Cfg.ClientURL)
	dashSvc := services.NewDashboardService(orderRepo, tableRepo)
	staffSvc := services.NewStaffService(d.DB, staffRepo)

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	menuCtrl := controllers.NewMenuController(menuSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	tableCtrl := controllers.NewTableController(tableSvc)
	adminCtrl := controllers.NewAdminController(dashSvc, staffSvc)

	staff := middlewares.AuthMiddleware(authSvc, entity.AnyStaff)
	manager := middlewares.AuthMiddleware(authSvc, entity.ManagerOrAdmin)
	admin := middlewares.AuthMiddleware(authSvc, entity.AdminOnly)

	if d.Hub != nil {
		r.GET("/ws", middlewares.OptionalAuth(authSvc), d.Hub.HandleWebSocket)
	}

	api := r.Group("/api")

	// Auth
	a := api.Group("/auth")
	{
		a.POST("/login", authCtrl.Login)
		a.POST("/setup", authCtrl.Setup)
		a.GET("/me", staff, authCtrl.Me)
	}

	// Menu
	m := api.Group("/menu")
	{
		m.GET("", menuCtrl.List)
		m.GET("/all", manager, menuCtrl.All)
		m.GET("/categories/list", menuCtrl.Categories)
		m.GET("/:id", menuCtrl.Get)
		m.POST("", manager, menuCtrl.Create)
		m.PUT("/:id", manager, menuCtrl.Update)
		m.DELETE("/:id", manager, menuCtrl.Delete)
		m.PATCH("/:id/toggle", manager, menuCtrl.Toggle)
	}

	// Orders
	o := api.Group("/orders")
	{
		o.POST("", orderCtrl.Create)
		o.POST("/quote", orderCtrl.Quote)
		o.GET("/table/:tableNumber", orderCtrl.ByTable)
		o.GET("/:id", orderCtrl.Get)
		o.GET("", staff, orderCtrl.List)
		o.PATCH("/:id/status", staff, orderCtrl.UpdateStatus)
		o.DELETE("/:id", manager, orderCtrl.Cancel)
	}

	// Tables
	t := api.Group("/tables")
	{
		t.GET("/:tableNumber", tableCtrl.Get)
		t.POST("/:tableNumber/service", tableCtrl.CallService)
		t.GET("", staff, tableCtrl.List)
		t.POST("", manager, tableCtrl.Create)
		t.PUT("/:id", manager, tableCtrl.Update)
		t.DELETE("/:id", manager, tableCtrl.Delete)
		t.GET("/:tableNumber/qr", manager, tableCtrl.QR)
		t.PATCH("/:tableNumber/status", staff, tableCtrl.SetStatus)
		t.PATCH("/:tableNumber/service/:id/resolve", staff, tableCtrl.ResolveServiceCall)
	}

	// Admin
	ad := api.Group("/admin")
	{
		ad.GET("/dashboard", staff, adminCtrl.Overview)
		ad.GET("/analytics", manager, adminCtrl.Analytics)
		ad.GET("/service-calls", staff, adminCtrl.ServiceCalls)
		ad.GET("/staff", admin, adminCtrl.ListStaff)
		ad.POST("/staff", admin, adminCtrl.CreateStaff)
		ad.PUT("/staff/:id", admin, adminCtrl.UpdateStaff)
		ad.DELETE("/staff/:id", admin, adminCtrl.DeleteStaff)
	}
}
