package router

import (
	"time"

	"wareinc/internal/config"
	"wareinc/internal/handler"
	"wareinc/internal/infra"
	"wareinc/internal/middleware"
	"wareinc/internal/repository"
	"wareinc/internal/service"
	"wareinc/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is the ledger's service layer. The composition root shares it
// between the HTTP router and the background workers.
type Services struct {
	Auth        service.AuthService
	Categorias  service.CategoriaService
	Productos   service.ProductoService
	Compras     service.CompraService
	Ventas      service.VentaService
	Presupuesto service.PresupuestoService
	Reportes    service.ReporteService
	Respaldos   service.RespaldoService
}

// NewServices wires repositories into services. Every mutating service shares
// one Ledger so budget and stock changes are serialized. dispatcher may be nil
// when Redis is unavailable; sales then skip the low-stock alert.
func NewServices(cfg *config.Config, db *gorm.DB, dispatcher *worker.Dispatcher) *Services {
	ledger := service.NewLedger(db)

	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	presupuestoRepo := repository.NewPresupuestoRepository(db)
	respaldoRepo := repository.NewRespaldoRepository(db)

	var jobs service.Notificador
	if dispatcher != nil {
		jobs = dispatcher
	}
	alerta := service.AlertaStock{Email: cfg.AlertEmail, Umbral: cfg.StockMinimoAlerta}

	return &Services{
		Auth:        service.NewAuthService(cfg),
		Categorias:  service.NewCategoriaService(ledger, categoriaRepo),
		Productos:   service.NewProductoService(ledger, productoRepo, categoriaRepo, compraRepo, presupuestoRepo, cfg.StockMinimoAlerta),
		Compras:     service.NewCompraService(ledger, compraRepo, productoRepo, categoriaRepo, presupuestoRepo),
		Ventas:      service.NewVentaService(ledger, ventaRepo, productoRepo, presupuestoRepo, jobs, alerta),
		Presupuesto: service.NewPresupuestoService(ledger, presupuestoRepo),
		Reportes:    service.NewReporteService(productoRepo, categoriaRepo, ventaRepo, compraRepo, presupuestoRepo, cfg.StockMinimoAlerta),
		Respaldos:   service.NewRespaldoService(ledger, respaldoRepo, presupuestoRepo, cfg.BackupPath, cfg.Capital),
	}
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svcs *Services, dispatcher *worker.Dispatcher, mailCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	var respaldoJobs handler.RespaldoEnqueuer
	if dispatcher != nil {
		respaldoJobs = dispatcher
	}

	authH := handler.NewAuthHandler(svcs.Auth)
	categoriasH := handler.NewCategoriasHandler(svcs.Categorias)
	productosH := handler.NewProductosHandler(svcs.Productos)
	comprasH := handler.NewComprasHandler(svcs.Compras)
	ventasH := handler.NewVentasHandler(svcs.Ventas, cfg.VentasRecientesLimite)
	presupuestoH := handler.NewPresupuestoHandler(svcs.Presupuesto)
	reportesH := handler.NewReportesHandler(svcs.Reportes)
	respaldosH := handler.NewRespaldosHandler(svcs.Respaldos, respaldoJobs)

	// Public
	r.GET("/health", handler.Health(db, rdb, mailCB))
	r.POST("/v1/auth/login", middleware.LoginRateLimiter(), authH.Login)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		v1.GET("/auth/me", authH.Me)

		categorias := v1.Group("/categorias")
		{
			categorias.POST("", categoriasH.Crear)
			categorias.GET("", categoriasH.Listar)
			categorias.GET("/:id", categoriasH.ObtenerPorID)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Eliminar)
		}

		productos := v1.Group("/productos")
		{
			productos.POST("", productosH.Crear)
			productos.GET("", productosH.Listar)
			productos.GET("/bajo-stock", productosH.BajoStock)
			productos.GET("/:id", productosH.ObtenerPorID)
			productos.PUT("/:id", productosH.Actualizar)
			productos.DELETE("/:id", productosH.Eliminar)
			productos.PATCH("/:id/orden", productosH.Reordenar)
			productos.PATCH("/:id/categoria", productosH.MoverCategoria)
		}

		v1.POST("/compras", comprasH.Registrar)
		v1.GET("/compras", comprasH.Listar)

		v1.POST("/ventas", ventasH.Registrar)
		v1.GET("/ventas", ventasH.Listar)

		v1.GET("/presupuesto", presupuestoH.Obtener)
		v1.PUT("/presupuesto", presupuestoH.Establecer)

		reportes := v1.Group("/reportes")
		{
			reportes.GET("/estadisticas", reportesH.Estadisticas)
			reportes.GET("/mas-vendido", reportesH.MasVendido)
			reportes.GET("/compras", reportesH.Compras)
			reportes.GET("/pdf", reportesH.PDF)
			reportes.GET("/excel", reportesH.Excel)
		}

		respaldos := v1.Group("/respaldos")
		{
			respaldos.GET("", respaldosH.Listar)
			respaldos.POST("", respaldosH.Guardar)
			respaldos.POST("/async", respaldosH.GuardarAsync)
			respaldos.POST("/nuevo-periodo", respaldosH.NuevoPeriodo)
		}
	}

	// Swagger UI only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
