package backend

import (
	"context"
	"net/url"
	"strconv"

	"repairdesk/core/types"
)

// ListDeviceTypes returns every device type
func (c *Client) ListDeviceTypes(ctx context.Context) ([]types.DeviceType, error) {
	return listAll[types.DeviceType](ctx, c, "tech/device-types/", nil)
}

// ListBrands returns the brands, narrowed to a device type when given
func (c *Client) ListBrands(ctx context.Context, deviceTypeID *int) ([]types.Brand, error) {
	return listAll[types.Brand](ctx, c, "tech/brands/", idFilter("device_type", deviceTypeID))
}

// ListProductModels returns the product models, narrowed to a brand when given
func (c *Client) ListProductModels(ctx context.Context, brandID *int) ([]types.ProductModel, error) {
	return listAll[types.ProductModel](ctx, c, "tech/product-models/", idFilter("brand", brandID))
}

// ListStoreOrders returns one page of supplier orders
func (c *Client) ListStoreOrders(ctx context.Context, page int) (types.Page[types.StoreOrder], error) {
	var out types.Page[types.StoreOrder]
	err := c.get(ctx, "tech/store-orders/", pageQuery(page), &out)
	return out, err
}

// ListProducts returns one page of stock products
func (c *Client) ListProducts(ctx context.Context, page int) (types.Page[types.Product], error) {
	var out types.Page[types.Product]
	err := c.get(ctx, "tech/products/", pageQuery(page), &out)
	return out, err
}

func idFilter(key string, id *int) url.Values {
	if id == nil {
		return nil
	}
	return url.Values{key: {strconv.Itoa(*id)}}
}

func pageQuery(page int) url.Values {
	if page <= 1 {
		return nil
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}
