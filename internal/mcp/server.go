// Package mcp provides a Model Context Protocol server for YardPilot.
//
// It exposes the query orchestrator and the mutating inventory operations
// (add, subtract, update, duplicate scan, merge) as MCP tools, plus a stock
// report and recent transactions as MCP resources, over stdio transport.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/yardpilot/yardpilot/internal/dedup"
	"github.com/yardpilot/yardpilot/internal/inventory"
	"github.com/yardpilot/yardpilot/internal/resolve"
	"github.com/yardpilot/yardpilot/internal/store"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Store        store.Store
	Service      *inventory.Service
	Orchestrator *resolve.Orchestrator
	Version      string
	DupThreshold float64
}

// dbMu serializes all MCP tool calls that touch the database.
// The mcp-go library dispatches handlers concurrently via goroutines.
// SQLite (even with WAL) supports only one writer at a time; a global mutex
// ensures mutations commit before the next query tier reads their data.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with all YardPilot tools and
// resources.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"YardPilot",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	registerAskTool(s, cfg.Orchestrator)
	registerStockAddTool(s, cfg.Service)
	registerStockSubtractTool(s, cfg.Service)
	registerStockUpdateTool(s, cfg.Service)
	registerDuplicatesScanTool(s, cfg.Service, cfg.DupThreshold)
	registerDuplicatesMergeTool(s, cfg.Service)

	registerStockReportResource(s, cfg.Store)
	registerTransactionsResource(s, cfg.Store)

	return s
}

// --- Tools ---

func registerAskTool(s *server.MCPServer, orch *resolve.Orchestrator) {
	tool := mcp.NewTool("yardpilot_ask",
		mcp.WithDescription("Answer a free-text question about stock, the truck fleet, or the yard knowledge base. Tries local data sources in priority order and falls back to an AI assistant when configured."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The question, e.g. 'need 5 yards mulch' or 'truck 2 status'"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		answer := orch.Resolve(ctx, query)
		data, _ := json.MarshalIndent(answer, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerStockAddTool(s *server.MCPServer, svc *inventory.Service) {
	tool := mcp.NewTool("yardpilot_stock_add",
		mcp.WithDescription("Add quantity to a stock item, creating the item when no row matches the name (case-insensitive)."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Item name, the catalog identity"),
		),
		mcp.WithNumber("quantity",
			mcp.Required(),
			mcp.Description("Amount to add (non-negative integer)"),
		),
		mcp.WithString("unit",
			mcp.Description("Unit label for a newly created item, e.g. 'yards'"),
		),
		mcp.WithString("location",
			mcp.Description("Storage location for a newly created item"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-text notes for a newly created item"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError("name is required"), nil
		}
		qtyVal, err := req.RequireFloat("quantity")
		if err != nil {
			return mcp.NewToolResultError("quantity is required"), nil
		}
		unit, _ := req.RequireString("unit")
		location, _ := req.RequireString("location")
		notes, _ := req.RequireString("notes")

		it, err := svc.Add(ctx, name, int(qtyVal), unit, location, notes)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("stock add error: %v", err)), nil
		}
		return itemResult(it)
	})
}

func registerStockSubtractTool(s *server.MCPServer, svc *inventory.Service) {
	tool := mcp.NewTool("yardpilot_stock_subtract",
		mcp.WithDescription("Remove quantity from a stock item. Rejected when the request exceeds the on-hand amount; stock never goes negative."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Item name (case-insensitive exact match)"),
		),
		mcp.WithNumber("quantity",
			mcp.Required(),
			mcp.Description("Amount to remove"),
		),
		mcp.WithString("note",
			mcp.Description("Audit note, e.g. the job the stock went to"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError("name is required"), nil
		}
		qtyVal, err := req.RequireFloat("quantity")
		if err != nil {
			return mcp.NewToolResultError("quantity is required"), nil
		}
		note, _ := req.RequireString("note")

		it, err := svc.Subtract(ctx, name, int(qtyVal), note)
		if err != nil {
			if errors.Is(err, inventory.ErrInsufficientStock) {
				return mcp.NewToolResultError(fmt.Sprintf("insufficient stock: %v", err)), nil
			}
			if errors.Is(err, store.ErrNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("no such item %q", name)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("stock subtract error: %v", err)), nil
		}
		return itemResult(it)
	})
}

func registerStockUpdateTool(s *server.MCPServer, svc *inventory.Service) {
	tool := mcp.NewTool("yardpilot_stock_update",
		mcp.WithDescription("Rewrite fields of an existing stock item. Omitted fields are left unchanged."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Item name (case-insensitive exact match)"),
		),
		mcp.WithNumber("quantity",
			mcp.Description("New absolute on-hand quantity"),
		),
		mcp.WithString("unit",
			mcp.Description("New unit label"),
		),
		mcp.WithString("location",
			mcp.Description("New storage location"),
		),
		mcp.WithString("notes",
			mcp.Description("New notes text"),
		),
		mcp.WithNumber("min_stock",
			mcp.Description("New reorder floor"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError("name is required"), nil
		}

		var fields inventory.UpdateFields
		if v, err := req.RequireFloat("quantity"); err == nil {
			q := int(v)
			fields.Quantity = &q
		}
		if v, err := req.RequireString("unit"); err == nil && v != "" {
			fields.Unit = &v
		}
		if v, err := req.RequireString("location"); err == nil && v != "" {
			fields.Location = &v
		}
		if v, err := req.RequireString("notes"); err == nil && v != "" {
			fields.Notes = &v
		}
		if v, err := req.RequireFloat("min_stock"); err == nil {
			m := int(v)
			fields.MinStock = &m
		}

		it, err := svc.Update(ctx, name, fields)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("no such item %q", name)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("stock update error: %v", err)), nil
		}
		return itemResult(it)
	})
}

func registerDuplicatesScanTool(s *server.MCPServer, svc *inventory.Service, threshold float64) {
	if threshold <= 0 {
		threshold = dedup.DefaultThreshold
	}
	tool := mcp.NewTool("yardpilot_duplicates_scan",
		mcp.WithDescription("Scan the catalog for near-duplicate item names (typos, spacing variants). Read-only; pair each result with yardpilot_duplicates_merge to resolve."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithNumber("threshold",
			mcp.Description(fmt.Sprintf("Similarity cutoff in 0..1 (default %.2f)", threshold)),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		th := threshold
		if v, err := req.RequireFloat("threshold"); err == nil && v > 0 && v <= 1 {
			th = v
		}

		pairs, err := svc.FindDuplicates(ctx, th)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("duplicate scan error: %v", err)), nil
		}

		payload := map[string]interface{}{
			"threshold": th,
			"pairs":     pairs,
			"count":     len(pairs),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerDuplicatesMergeTool(s *server.MCPServer, svc *inventory.Service) {
	tool := mcp.NewTool("yardpilot_duplicates_merge",
		mcp.WithDescription("Merge two duplicate stock rows. The kept row takes the summed quantity; the other row is deleted. Destructive and not undoable."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("name_a",
			mcp.Required(),
			mcp.Description("First item name"),
		),
		mcp.WithString("name_b",
			mcp.Required(),
			mcp.Description("Second item name"),
		),
		mcp.WithBoolean("keep_a",
			mcp.Description("Keep the first name (default: true)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		nameA, err := req.RequireString("name_a")
		if err != nil {
			return mcp.NewToolResultError("name_a is required"), nil
		}
		nameB, err := req.RequireString("name_b")
		if err != nil {
			return mcp.NewToolResultError("name_b is required"), nil
		}
		if strings.EqualFold(strings.TrimSpace(nameA), strings.TrimSpace(nameB)) {
			return mcp.NewToolResultError("name_a and name_b must be different rows"), nil
		}

		keepA := req.GetBool("keep_a", true)

		kept, err := svc.Merge(ctx, nameA, nameB, keepA)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("merge error: %v", err)), nil
		}
		return itemResult(kept)
	})
}

func itemResult(it *store.InventoryItem) (*mcp.CallToolResult, error) {
	data, _ := json.MarshalIndent(it, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}
