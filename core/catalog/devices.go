// Package catalog - Device catalog
// Maps the display-layer keys (slugs, names, id strings) of device types,
// brands and models to the numeric ids the backend expects.
package catalog

import (
	"context"
	"strconv"
	"strings"

	"repairdesk/core/types"
)

// DeviceSource lists device types, brands and product models
type DeviceSource interface {
	ListDeviceTypes(ctx context.Context) ([]types.DeviceType, error)
	ListBrands(ctx context.Context, deviceTypeID *int) ([]types.Brand, error)
	ListProductModels(ctx context.Context, brandID *int) ([]types.ProductModel, error)
}

// DeviceCatalog holds the fetched device catalogs
type DeviceCatalog struct {
	DeviceTypes []types.DeviceType
	Brands      []types.Brand
	Models      []types.ProductModel
}

// LoadDeviceCatalog fetches device types, then brands and models narrowed
// to the given device type and brand keys when they resolve.
func LoadDeviceCatalog(ctx context.Context, src DeviceSource, deviceTypeKey, brandKey string) (*DeviceCatalog, error) {
	c := &DeviceCatalog{}

	var err error
	if c.DeviceTypes, err = src.ListDeviceTypes(ctx); err != nil {
		return nil, err
	}
	if c.Brands, err = src.ListBrands(ctx, c.DeviceTypeID(deviceTypeKey)); err != nil {
		return nil, err
	}
	if c.Models, err = src.ListProductModels(ctx, c.BrandID(brandKey)); err != nil {
		return nil, err
	}
	return c, nil
}

// DeviceTypeID resolves a device type by slug, name or id string
func (c *DeviceCatalog) DeviceTypeID(key string) *int {
	key = strings.TrimSpace(key)
	if c == nil || key == "" {
		return nil
	}
	for _, dt := range c.DeviceTypes {
		if dt.Slug == key || strings.EqualFold(dt.Name, key) || matchesID(dt.ID, key) {
			return intPtr(dt.ID)
		}
	}
	return nil
}

// BrandID resolves a brand by id string or name
func (c *DeviceCatalog) BrandID(key string) *int {
	key = strings.TrimSpace(key)
	if c == nil || key == "" {
		return nil
	}
	for _, b := range c.Brands {
		if matchesID(b.ID, key) || strings.EqualFold(b.Name, key) {
			return intPtr(b.ID)
		}
	}
	return nil
}

// ModelID resolves a product model by id string or name
func (c *DeviceCatalog) ModelID(key string) *int {
	key = strings.TrimSpace(key)
	if c == nil || key == "" {
		return nil
	}
	for _, m := range c.Models {
		if matchesID(m.ID, key) || strings.EqualFold(m.Name, key) {
			return intPtr(m.ID)
		}
	}
	return nil
}

func matchesID(id int, key string) bool {
	return types.NormalizeID(key) == strconv.Itoa(id)
}

func intPtr(v int) *int {
	return &v
}
