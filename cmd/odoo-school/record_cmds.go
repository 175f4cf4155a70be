package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/target/odoo-school-client/internal/bootstrap"
	"github.com/target/odoo-school-client/internal/odoo"
	"github.com/target/odoo-school-client/internal/service"
)

// modelFlags are shared by every record command.
type modelFlags struct {
	model  *string
	fields *string
	query  *string
}

func addModelFlags(fs *flag.FlagSet) modelFlags {
	return modelFlags{
		model:  fs.String("model", "", "Odoo model, e.g. res.partner (required)"),
		fields: fs.String("fields", "", "comma separated fields to read"),
		query:  fs.String("query", "", "JMESPath expression applied to the output"),
	}
}

func (m modelFlags) validate(cmdCtx *commandContext) error {
	if strings.TrimSpace(*m.model) == "" {
		_ = writeln(cmdCtx.Err, "-model is required")
		return errUsage
	}
	return nil
}

func (m modelFlags) fieldList() []string {
	return splitList(*m.fields)
}

func runSearchRead(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet(cmdCtx, "search-read")
	mf := addModelFlags(fs)
	domainJSON := fs.String("domain", "[]", "search domain as JSON, e.g. [[\"active\",\"=\",true]]")
	limit := fs.Int("limit", 0, "maximum number of records (0 = server default)")
	offset := fs.Int("offset", 0, "number of records to skip")
	order := fs.String("order", "", "sort specification, e.g. \"name asc\"")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := mf.validate(cmdCtx); err != nil {
		return err
	}
	domain, err := parseDomain(*domainJSON)
	if err != nil {
		return err
	}

	return withStack(cmdCtx, func(stack *bootstrap.AuthStack) error {
		svc, err := recordService(cmdCtx, stack, *mf.model, mf.fieldList())
		if err != nil {
			return err
		}
		recs, err := svc.List(cmdCtx.Ctx, domain, service.ListOptions{
			Limit:  *limit,
			Offset: *offset,
			Order:  *order,
		})
		if err != nil {
			return err
		}
		return printResult(cmdCtx.Out, recs, *mf.query)
	})
}

func runRead(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet(cmdCtx, "read")
	mf := addModelFlags(fs)
	idsFlag := fs.String("ids", "", "comma separated record ids (required)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := mf.validate(cmdCtx); err != nil {
		return err
	}
	ids, err := parseIDs(*idsFlag)
	if err != nil || len(ids) == 0 {
		_ = writeln(cmdCtx.Err, "-ids must list at least one positive integer id")
		return errUsage
	}

	return withStack(cmdCtx, func(stack *bootstrap.AuthStack) error {
		if len(ids) == 1 {
			svc, err := recordService(cmdCtx, stack, *mf.model, nil)
			if err != nil {
				return err
			}
			rec, err := svc.Get(cmdCtx.Ctx, ids[0], mf.fieldList()...)
			if err != nil {
				return err
			}
			return printResult(cmdCtx.Out, rec, *mf.query)
		}

		recs, err := stack.Client.Read(cmdCtx.Ctx, *mf.model, ids, mf.fieldList())
		if err != nil {
			return err
		}
		return printResult(cmdCtx.Out, recs, *mf.query)
	})
}

func runCount(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet(cmdCtx, "count")
	mf := addModelFlags(fs)
	domainJSON := fs.String("domain", "[]", "search domain as JSON")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := mf.validate(cmdCtx); err != nil {
		return err
	}
	domain, err := parseDomain(*domainJSON)
	if err != nil {
		return err
	}

	return withStack(cmdCtx, func(stack *bootstrap.AuthStack) error {
		svc, err := recordService(cmdCtx, stack, *mf.model, nil)
		if err != nil {
			return err
		}
		n, err := svc.Count(cmdCtx.Ctx, domain)
		if err != nil {
			return err
		}
		return printResult(cmdCtx.Out, map[string]any{"model": *mf.model, "count": n}, *mf.query)
	})
}

func runCall(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet(cmdCtx, "call")
	mf := addModelFlags(fs)
	method := fs.String("method", "", "model method to invoke (required)")
	argsJSON := fs.String("args", "[]", "positional arguments as a JSON array")
	kwargsJSON := fs.String("kwargs", "{}", "keyword arguments as a JSON object")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := mf.validate(cmdCtx); err != nil {
		return err
	}
	if strings.TrimSpace(*method) == "" {
		_ = writeln(cmdCtx.Err, "-method is required")
		return errUsage
	}

	var callArgs []any
	if err := json.Unmarshal([]byte(*argsJSON), &callArgs); err != nil {
		_ = writef(cmdCtx.Err, "-args must be a JSON array: %v\n", err)
		return errUsage
	}
	var kwargs map[string]any
	if err := json.Unmarshal([]byte(*kwargsJSON), &kwargs); err != nil {
		_ = writef(cmdCtx.Err, "-kwargs must be a JSON object: %v\n", err)
		return errUsage
	}

	return withStack(cmdCtx, func(stack *bootstrap.AuthStack) error {
		raw, err := stack.Client.CallMethod(cmdCtx.Ctx, *mf.model, *method, callArgs, kwargs)
		if err != nil {
			return err
		}
		var result any
		if err := json.Unmarshal(raw, &result); err != nil {
			return fmt.Errorf("decode %s.%s result: %w", *mf.model, *method, err)
		}
		return printResult(cmdCtx.Out, result, *mf.query)
	})
}

func recordService(
	cmdCtx *commandContext,
	stack *bootstrap.AuthStack,
	model string,
	fields []string,
) (*service.RecordService, error) {
	return stack.RecordService(model, fields, cmdCtx.Logger.With("component", "records", "model", model))
}

func parseDomain(s string) (odoo.Domain, error) {
	var domain odoo.Domain
	if err := json.Unmarshal([]byte(s), &domain); err != nil {
		return nil, fmt.Errorf("%w: -domain must be a JSON array: %w", errUsage, err)
	}
	return domain, nil
}

func parseIDs(s string) ([]int64, error) {
	parts := splitList(s)
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
