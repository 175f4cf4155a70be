package odoo

import (
	"context"
	"encoding/json"
	"fmt"
)

// KWParams is the params object of a /web/dataset/call_kw request.
type KWParams struct {
	Model  string         `json:"model"`
	Method string         `json:"method"`
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs"`
}

// SearchOptions pages a search. Zero values are omitted.
type SearchOptions struct {
	Limit  int
	Offset int
}

// SearchReadOptions projects and pages a search_read. Zero values are omitted.
type SearchReadOptions struct {
	Fields []string
	Limit  int
	Offset int
	Order  string
}

// Search returns the ids of records matching domain.
func (c *Client) Search(ctx context.Context, model string, domain Domain, opts SearchOptions) ([]int64, error) {
	kwargs := map[string]any{}
	putPaging(kwargs, opts.Limit, opts.Offset)
	raw, err := c.CallKW(ctx, model, "search", []any{domainOrEmpty(domain)}, kwargs)
	if err != nil {
		return nil, err
	}
	return decodeResult[[]int64](raw, model, "search")
}

// SearchRead returns field-projected records matching domain in one round trip.
func (c *Client) SearchRead(ctx context.Context, model string, domain Domain, opts SearchReadOptions) ([]Record, error) {
	kwargs := map[string]any{"domain": domainOrEmpty(domain)}
	if len(opts.Fields) > 0 {
		kwargs["fields"] = opts.Fields
	}
	putPaging(kwargs, opts.Limit, opts.Offset)
	if opts.Order != "" {
		kwargs["order"] = opts.Order
	}
	raw, err := c.CallKW(ctx, model, "search_read", []any{}, kwargs)
	if err != nil {
		return nil, err
	}
	return decodeResult[[]Record](raw, model, "search_read")
}

// Read returns field-projected records for known ids.
func (c *Client) Read(ctx context.Context, model string, ids []int64, fields []string) ([]Record, error) {
	kwargs := map[string]any{}
	if len(fields) > 0 {
		kwargs["fields"] = fields
	}
	raw, err := c.CallKW(ctx, model, "read", []any{idsOrEmpty(ids)}, kwargs)
	if err != nil {
		return nil, err
	}
	return decodeResult[[]Record](raw, model, "read")
}

// SearchCount returns the number of records matching domain.
func (c *Client) SearchCount(ctx context.Context, model string, domain Domain) (int64, error) {
	raw, err := c.CallKW(ctx, model, "search_count", []any{domainOrEmpty(domain)}, nil)
	if err != nil {
		return 0, err
	}
	return decodeResult[int64](raw, model, "search_count")
}

// Create creates one record and returns its id.
func (c *Client) Create(ctx context.Context, model string, values map[string]any) (int64, error) {
	raw, err := c.CallKW(ctx, model, "create", []any{values}, nil)
	if err != nil {
		return 0, err
	}
	// Newer servers answer with a list of ids even for a single record.
	if ids, derr := decodeResult[[]int64](raw, model, "create"); derr == nil {
		if len(ids) == 0 {
			return 0, &Error{Kind: KindMalformed, Message: fmt.Sprintf("%s.create returned no id", model)}
		}
		return ids[0], nil
	}
	return decodeResult[int64](raw, model, "create")
}

// Update writes values to every record in ids.
func (c *Client) Update(ctx context.Context, model string, ids []int64, values map[string]any) (bool, error) {
	raw, err := c.CallKW(ctx, model, "write", []any{idsOrEmpty(ids), values}, nil)
	if err != nil {
		return false, err
	}
	return decodeResult[bool](raw, model, "write")
}

// DeleteRecords unlinks every record in ids.
func (c *Client) DeleteRecords(ctx context.Context, model string, ids []int64) (bool, error) {
	raw, err := c.CallKW(ctx, model, "unlink", []any{idsOrEmpty(ids)}, nil)
	if err != nil {
		return false, err
	}
	return decodeResult[bool](raw, model, "unlink")
}

// CallMethod invokes an arbitrary model method and returns its raw result.
func (c *Client) CallMethod(
	ctx context.Context,
	model, method string,
	args []any,
	kwargs map[string]any,
) (json.RawMessage, error) {
	return c.CallKW(ctx, model, method, args, kwargs)
}

// CallKW posts an authenticated call_kw request.
func (c *Client) CallKW(
	ctx context.Context,
	model, method string,
	args []any,
	kwargs map[string]any,
) (json.RawMessage, error) {
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return c.Call(ctx, PathCallKW, KWParams{
		Model:  model,
		Method: method,
		Args:   args,
		Kwargs: kwargs,
	}, true)
}

func decodeResult[T any](raw json.RawMessage, model, method string) (T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &Error{
			Kind:    KindMalformed,
			Message: fmt.Sprintf("decode %s.%s result: %v", model, method, err),
			Cause:   err,
		}
	}
	return out, nil
}

func putPaging(kwargs map[string]any, limit, offset int) {
	if limit > 0 {
		kwargs["limit"] = limit
	}
	if offset > 0 {
		kwargs["offset"] = offset
	}
}

func domainOrEmpty(d Domain) Domain {
	if d == nil {
		return Domain{}
	}
	return d
}

func idsOrEmpty(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
