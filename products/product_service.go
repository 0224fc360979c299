package products

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 100
)

type Searcher interface {
	Search(ctx context.Context, query string, size int) (*SearchResult, error)
}

type ProductService struct {
	DB     *sql.DB
	Cache  Cache
	Search Searcher
}

// NewProductService wires the catalogue routes. cache and search may be nil.
func NewProductService(db *sql.DB, cache Cache, search Searcher) *ProductService {
	return &ProductService{DB: db, Cache: cache, Search: search}
}

func (p *ProductService) RegisterRoutes(route fiber.Router) {
	route.Get("/categories", p.handleGetCategories)
	route.Get("/categories/:id", p.handleGetCategoryByID)
	route.Get("/categories/:id/operators", p.handleGetOperatorsByCategoryID)
	route.Get("/operators", p.handleGetOperators)
	route.Get("/operators/:id", p.handleGetOperatorByID)
	route.Get("/operators/:id/product-types", p.handleGetProductTypesByOperatorID)
	route.Get("/product-types", p.handleGetProductTypes)
	route.Get("/product-types/:id", p.handleGetProductTypeByID)
	route.Get("/product-types/:id/products", p.handleGetProductsByProductTypeID)
	route.Get("/products", p.handleGetProducts)
	route.Get("/products/search", p.handleSearchProducts)
	route.Get("/products/:id", p.handleGetProductByID)
}

func paramID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

func respond(c *fiber.Ctx, message string, data any) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
		"errors":  nil,
	})
}

// notFoundOr turns sql.ErrNoRows into a 404 carrying msg.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fiber.NewError(fiber.StatusNotFound, msg)
	}
	return err
}

// cached serves dst from the cache when possible, otherwise runs load and
// stores the result. Cache failures only degrade to a database read.
func (p *ProductService) cached(ctx context.Context, key string, dst any, load func() error) error {
	if p.Cache != nil {
		hit, err := p.Cache.Get(ctx, key, dst)
		if err != nil {
			slog.Warn("Cache read failed", "key", key, "err", err)
		} else if hit {
			return nil
		}
	}

	if err := load(); err != nil {
		return err
	}

	if p.Cache != nil {
		if err := p.Cache.Set(ctx, key, dst); err != nil {
			slog.Warn("Cache write failed", "key", key, "err", err)
		}
	}

	return nil
}

func (p *ProductService) requireExisting(ctx context.Context, table string, id int, msg string) error {
	found, err := exists(ctx, p.DB, table, id)
	if err != nil {
		return err
	}
	if !found {
		return fiber.NewError(fiber.StatusNotFound, msg)
	}
	return nil
}

func (p *ProductService) handleGetCategories(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var categories []Category
	err := p.cached(ctx, "categories", &categories, func() (err error) {
		categories, err = queryList(ctx, p.DB, scanCategory, selectCategory+" ORDER BY id")
		return err
	})
	if err != nil {
		return err
	}

	return respond(c, "Categories retrieved successfully", categories)
}

func (p *ProductService) handleGetCategoryByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	category, err := queryOne(c.UserContext(), p.DB, scanCategory, selectCategory+" WHERE id = ?", id)
	if err != nil {
		return notFoundOr(err, "Category not found")
	}

	return respond(c, "Category retrieved successfully", category)
}

func (p *ProductService) handleGetOperatorsByCategoryID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	if err := p.requireExisting(ctx, "categories", id, "Category not found"); err != nil {
		return err
	}

	operators, err := queryList(ctx, p.DB, scanOperator, selectOperator+" WHERE category_id = ? ORDER BY id", id)
	if err != nil {
		return err
	}

	return respond(c, "Operators retrieved successfully", operators)
}

func (p *ProductService) handleGetOperators(c *fiber.Ctx) error {
	operators, err := queryList(c.UserContext(), p.DB, scanOperator, selectOperator+" ORDER BY id")
	if err != nil {
		return err
	}

	return respond(c, "Operators retrieved successfully", operators)
}

func (p *ProductService) handleGetOperatorByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	operator, err := queryOne(c.UserContext(), p.DB, scanOperator, selectOperator+" WHERE id = ?", id)
	if err != nil {
		return notFoundOr(err, "Operator not found")
	}

	return respond(c, "Operator retrieved successfully", operator)
}

func (p *ProductService) handleGetProductTypesByOperatorID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	if err := p.requireExisting(ctx, "operators", id, "Operator not found"); err != nil {
		return err
	}

	productTypes, err := queryList(ctx, p.DB, scanProductType, selectProductType+" WHERE operator_id = ? ORDER BY id", id)
	if err != nil {
		return err
	}

	return respond(c, "Product types retrieved successfully", productTypes)
}

func (p *ProductService) handleGetProductTypes(c *fiber.Ctx) error {
	productTypes, err := queryList(c.UserContext(), p.DB, scanProductType, selectProductType+" ORDER BY id")
	if err != nil {
		return err
	}

	return respond(c, "Product types retrieved successfully", productTypes)
}

func (p *ProductService) handleGetProductTypeByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	productType, err := queryOne(c.UserContext(), p.DB, scanProductType, selectProductType+" WHERE id = ?", id)
	if err != nil {
		return notFoundOr(err, "Product type not found")
	}

	return respond(c, "Product type retrieved successfully", productType)
}

func (p *ProductService) handleGetProductsByProductTypeID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	if err := p.requireExisting(ctx, "product_types", id, "Product type not found"); err != nil {
		return err
	}

	products, err := queryList(ctx, p.DB, scanProduct, selectProduct+" WHERE product_type_id = ? ORDER BY price, id", id)
	if err != nil {
		return err
	}

	return respond(c, "Products retrieved successfully", products)
}

func (p *ProductService) handleGetProducts(c *fiber.Ctx) error {
	products, err := queryList(c.UserContext(), p.DB, scanProduct, selectProduct+" ORDER BY id")
	if err != nil {
		return err
	}

	return respond(c, "Products retrieved successfully", products)
}

func (p *ProductService) handleGetProductByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()

	var product Product
	err = p.cached(ctx, "product:"+strconv.Itoa(id), &product, func() (err error) {
		product, err = queryOne(ctx, p.DB, scanProduct, selectProduct+" WHERE id = ?", id)
		return err
	})
	if err != nil {
		return notFoundOr(err, "Product not found")
	}

	return respond(c, "Product retrieved successfully", product)
}

func (p *ProductService) handleSearchProducts(c *fiber.Ctx) error {
	if p.Search == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Product search is unavailable")
	}

	query := c.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Search query is required")
	}

	size := c.QueryInt("size", defaultSearchSize)
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}

	result, err := p.Search.Search(c.UserContext(), query, size)
	if err != nil {
		slog.Error("Error searching products", "query", query, "err", err)
		return fiber.NewError(fiber.StatusBadGateway, "Product search failed")
	}

	return respond(c, "Products found", result)
}
