package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/yardpilot/yardpilot/internal/store"
)

func registerStockReportResource(s *server.MCPServer, st store.Store) {
	resource := mcp.NewResource(
		"yardpilot://stock/report",
		"Stock Report",
		mcp.WithResourceDescription("Full catalog in insertion order, with the low-stock rows flagged."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		items, err := st.ListInventory(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading stock report: %w", err)
		}

		type reportRow struct {
			*store.InventoryItem
			LowStock bool `json:"low_stock"`
		}
		rows := make([]reportRow, 0, len(items))
		lowCount := 0
		for _, it := range items {
			low := it.LowStock()
			if low {
				lowCount++
			}
			rows = append(rows, reportRow{InventoryItem: it, LowStock: low})
		}

		payload := map[string]interface{}{
			"items":           rows,
			"count":           len(rows),
			"low_stock_count": lowCount,
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}

func registerTransactionsResource(s *server.MCPServer, st store.Store) {
	resource := mcp.NewResource(
		"yardpilot://transactions/recent",
		"Recent Transactions",
		mcp.WithResourceDescription("The most recent audit-trail entries, newest first."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		txs, err := st.ListTransactions(ctx, 50)
		if err != nil {
			return nil, fmt.Errorf("reading transactions: %w", err)
		}

		payload := map[string]interface{}{
			"transactions": txs,
			"count":        len(txs),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}
