package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/guonaihong/gout"
	"golang.org/x/sync/errgroup"

	"github.com/multivend/marketd/internal/domain"
)

// ListQuery carries the server-side list parameters shared by every
// collection endpoint. Zero values are omitted from the request.
type ListQuery struct {
	Q       string
	Status  string
	Sort    string
	Dir     string
	Page    int
	PerPage int
}

func (q ListQuery) values() gout.H {
	h := gout.H{}
	if q.Q != "" {
		h["q"] = q.Q
	}
	if q.Status != "" {
		h["status"] = q.Status
	}
	if q.Sort != "" {
		h["sort"] = q.Sort
	}
	if q.Dir != "" {
		h["dir"] = q.Dir
	}
	if q.Page > 0 {
		h["page"] = q.Page
	}
	if q.PerPage > 0 {
		h["perPage"] = q.PerPage
	}
	return h
}

// Login authenticates against the admin/user login and keeps the token on
// the client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login",
		nil, map[string]string{"email": email, "password": password}, &resp, false)
	if err != nil {
		return err
	}
	c.Token = resp.Token
	return nil
}

// ShopLogin authenticates as a seller.
func (c *Client) ShopLogin(ctx context.Context, email, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/shop-login",
		nil, map[string]string{"email": email, "password": password}, &resp, false)
	if err != nil {
		return err
	}
	c.Token = resp.Token
	return nil
}

// --- admin products ---

func (c *Client) AdminProducts(ctx context.Context, q ListQuery) (*Page[domain.Product], error) {
	return getPage[domain.Product](ctx, c, "/api/v1/admin/products", q.values())
}

func (c *Client) AdminProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return get[domain.Product](ctx, c, fmt.Sprintf("/api/v1/admin/products/%d", id), nil)
}

func (c *Client) AdminDeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/admin/products/%d", id), nil, nil, nil, false)
}

// AdminUpdateStock patches one product's stock and returns the updated row.
func (c *Client) AdminUpdateStock(ctx context.Context, id int64, stock int) (*domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/admin/products/%d/stock", id),
		nil, map[string]int{"stock": stock}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminUpdateProductStatus(ctx context.Context, id int64, status string) (*domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/admin/products/%d/status", id),
		nil, map[string]string{"status": status}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- admin events / coupons ---

func (c *Client) AdminEvents(ctx context.Context, q ListQuery) (*Page[domain.Event], error) {
	return getPage[domain.Event](ctx, c, "/api/v1/admin/events", q.values())
}

func (c *Client) AdminDeleteEvent(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/admin/events/%d", id), nil, nil, nil, false)
}

func (c *Client) AdminCoupons(ctx context.Context, q ListQuery) (*Page[domain.Coupon], error) {
	return getPage[domain.Coupon](ctx, c, "/api/v1/admin/coupons", q.values())
}

func (c *Client) AdminDeleteCoupon(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/admin/coupons/%d", id), nil, nil, nil, false)
}

// --- admin sellers / users / couriers ---

func (c *Client) AdminSellers(ctx context.Context, q ListQuery) (*Page[domain.Shop], error) {
	return getPage[domain.Shop](ctx, c, "/api/v1/admin/sellers", q.values())
}

func (c *Client) AdminApproveSeller(ctx context.Context, id int64, active bool) (*domain.Shop, error) {
	var out domain.Shop
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/admin/sellers/%d/approve", id),
		nil, map[string]bool{"is_active": active}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminUsers(ctx context.Context, q ListQuery) (*Page[domain.SysUser], error) {
	return getPage[domain.SysUser](ctx, c, "/api/v1/admin/users", q.values())
}

func (c *Client) AdminCouriers(ctx context.Context, q ListQuery) (*Page[domain.Courier], error) {
	return getPage[domain.Courier](ctx, c, "/api/v1/admin/couriers", q.values())
}

// --- admin orders ---

func (c *Client) AdminOrders(ctx context.Context, q ListQuery) (*Page[domain.Order], error) {
	return getPage[domain.Order](ctx, c, "/api/v1/admin/orders", q.values())
}

// AdminExportOrders downloads the order export in the given format
// ("csv" or "xlsx") and returns the raw file bytes.
func (c *Client) AdminExportOrders(ctx context.Context, format string) ([]byte, error) {
	var (
		status int
		body   []byte
	)
	err := gout.GET(c.BaseURL + "/api/v1/admin/orders/export").
		SetHeader(c.headers()).
		SetQuery(gout.H{"format": format}).
		SetTimeout(c.Timeout).
		WithContext(ctx).
		BindBody(&body).Code(&status).Do()
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: err.Error()}
	}
	if status != http.StatusOK {
		return nil, classify(status, body)
	}
	return body, nil
}

// Dashboard aggregates the admin landing page collections.
type Dashboard struct {
	Products *Page[domain.Product]
	Events   *Page[domain.Event]
	Coupons  *Page[domain.Coupon]
	Orders   *Page[domain.Order]
}

// AdminDashboard prefetches the first page of each collection
// concurrently; one failed fetch fails the whole prefetch.
func (c *Client) AdminDashboard(ctx context.Context) (*Dashboard, error) {
	var dash Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		dash.Products, err = c.AdminProducts(gctx, ListQuery{})
		return
	})
	g.Go(func() (err error) {
		dash.Events, err = c.AdminEvents(gctx, ListQuery{})
		return
	})
	g.Go(func() (err error) {
		dash.Coupons, err = c.AdminCoupons(gctx, ListQuery{})
		return
	})
	g.Go(func() (err error) {
		dash.Orders, err = c.AdminOrders(gctx, ListQuery{})
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}
