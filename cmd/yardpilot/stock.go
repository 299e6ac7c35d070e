package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yardpilot/yardpilot/internal/dedup"
	"github.com/yardpilot/yardpilot/internal/inventory"
)

func runAdd(args []string) error {
	var flags flagSink
	var location, notes string
	var positional []string

	for i := 0; i < len(args); {
		n, err := flags.take(args, i)
		if err != nil {
			return err
		}
		if n > 0 {
			i += n
			continue
		}
		switch args[i] {
		case "--location":
			if i+1 >= len(args) {
				return fmt.Errorf("--location requires a value")
			}
			location = args[i+1]
			i += 2
		case "--notes":
			if i+1 >= len(args) {
				return fmt.Errorf("--notes requires a value")
			}
			notes = args[i+1]
			i += 2
		default:
			if strings.HasPrefix(args[i], "-") {
				return fmt.Errorf("unknown flag: %s", args[i])
			}
			positional = append(positional, args[i])
			i++
		}
	}

	if len(positional) < 2 {
		return fmt.Errorf("usage: yardpilot add <name> <qty> [unit] [--location <loc>] [--notes <text>]")
	}
	name := positional[0]
	qty, err := strconv.Atoi(positional[1])
	if err != nil {
		return fmt.Errorf("quantity %q is not an integer", positional[1])
	}
	unit := ""
	if len(positional) > 2 {
		unit = positional[2]
	}

	d, err := flags.wire()
	if err != nil {
		return err
	}
	defer d.close()

	it, err := d.service.Add(context.Background(), name, qty, unit, location, notes)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d %s\n", it.Name, it.Quantity, it.Unit)
	return nil
}

func runSubtract(args []string) error {
	var flags flagSink
	var note string
	var positional []string

	for i := 0; i < len(args); {
		n, err := flags.take(args, i)
		if err != nil {
			return err
		}
		if n > 0 {
			i += n
			continue
		}
		if args[i] == "--note" {
			if i+1 >= len(args) {
				return fmt.Errorf("--note requires a value")
			}
			note = args[i+1]
			i += 2
			continue
		}
		if strings.HasPrefix(args[i], "-") {
			return fmt.Errorf("unknown flag: %s", args[i])
		}
		positional = append(positional, args[i])
		i++
	}

	if len(positional) != 2 {
		return fmt.Errorf("usage: yardpilot subtract <name> <qty> [--note <text>]")
	}
	qty, err := strconv.Atoi(positional[1])
	if err != nil {
		return fmt.Errorf("quantity %q is not an integer", positional[1])
	}

	d, err := flags.wire()
	if err != nil {
		return err
	}
	defer d.close()

	it, err := d.service.Subtract(context.Background(), positional[0], qty, note)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d %s remaining\n", it.Name, it.Quantity, it.Unit)
	return nil
}

func runUpdate(args []string) error {
	var flags flagSink
	var fields inventory.UpdateFields
	var positional []string

	takeValue := func(i int, name string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", name)
		}
		return args[i+1], nil
	}

	for i := 0; i < len(args); {
		n, err := flags.take(args, i)
		if err != nil {
			return err
		}
		if n > 0 {
			i += n
			continue
		}
		switch args[i] {
		case "--qty":
			v, err := takeValue(i, "--qty")
			if err != nil {
				return err
			}
			q, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("--qty %q is not an integer", v)
			}
			fields.Quantity = &q
			i += 2
		case "--unit":
			v, err := takeValue(i, "--unit")
			if err != nil {
				return err
			}
			fields.Unit = &v
			i += 2
		case "--location":
			v, err := takeValue(i, "--location")
			if err != nil {
				return err
			}
			fields.Location = &v
			i += 2
		case "--notes":
			v, err := takeValue(i, "--notes")
			if err != nil {
				return err
			}
			fields.Notes = &v
			i += 2
		case "--min":
			v, err := takeValue(i, "--min")
			if err != nil {
				return err
			}
			m, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("--min %q is not an integer", v)
			}
			fields.MinStock = &m
			i += 2
		default:
			if strings.HasPrefix(args[i], "-") {
				return fmt.Errorf("unknown flag: %s", args[i])
			}
			positional = append(positional, args[i])
			i++
		}
	}

	if len(positional) != 1 {
		return fmt.Errorf("usage: yardpilot update <name> [--qty N] [--unit u] [--location loc] [--notes text] [--min N]")
	}

	d, err := flags.wire()
	if err != nil {
		return err
	}
	defer d.close()

	it, err := d.service.Update(context.Background(), positional[0], fields)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d %s at %s (min %d)\n", it.Name, it.Quantity, it.Unit, it.Location, it.MinStock)
	return nil
}

func runImport(args []string) error {
	var flags flagSink
	var paths []string

	for i := 0; i < len(args); {
		n, err := flags.take(args, i)
		if err != nil {
			return err
		}
		if n > 0 {
			i += n
			continue
		}
		if strings.HasPrefix(args[i], "-") {
			return fmt.Errorf("unknown flag: %s", args[i])
		}
		paths = append(paths, args[i])
		i++
	}

	if len(paths) == 0 {
		return fmt.Errorf("usage: yardpilot import <file.csv>")
	}

	d, err := flags.wire()
	if err != nil {
		return err
	}
	defer d.close()

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		rows, err := inventory.ParseCSV(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		summary, err := d.service.Import(context.Background(), rows)
		if err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		fmt.Printf("%s: %d created, %d updated\n", path, summary.Created, summary.Updated)
		for _, e := range summary.Errors {
			fmt.Fprintf(os.Stderr, "  skipped: %s\n", e)
		}
	}
	return nil
}

func runDuplicates(args []string) error {
	var flags flagSink
	threshold := 0.0

	for i := 0; i < len(args); {
		n, err := flags.take(args, i)
		if err != nil {
			return err
		}
		if n > 0 {
			i += n
			continue
		}
		if args[i] == "--threshold" {
			if i+1 >= len(args) {
				return fmt.Errorf("--threshold requires a value")
			}
			t, err := strconv.ParseFloat(args[i+1], 64)
			if err != nil || t <= 0 || t > 1 {
				return fmt.Errorf("--threshold must be a number in (0, 1]")
			}
			threshold = t
			i += 2
			continue
		}
		return fmt.Errorf("unknown flag: %s", args[i])
	}

	d, err := flags.wire()
	if err != nil {
		return err
	}
	defer d.close()

	if threshold == 0 {
		threshold = d.cfg.DuplicateThreshold.Float(dedup.DefaultThreshold)
	}

	pairs, err := d.service.FindDuplicates(context.Background(), threshold)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		fmt.Println("No duplicate candidates found.")
		return nil
	}

	fmt.Printf("%d duplicate candidate(s) above %.0f%%:\n", len(pairs), threshold*100)
	for _, p := range pairs {
		fmt.Printf("  %.0f%%  %q <-> %q\n", p.Similarity*100, p.NameA, p.NameB)
	}
	fmt.Println("\nResolve with: yardpilot merge <keep> <remove>")
	return nil
}

func runMerge(args []string) error {
	var flags flagSink
	var positional []string

	for i := 0; i < len(args); {
		n, err := flags.take(args, i)
		if err != nil {
			return err
		}
		if n > 0 {
			i += n
			continue
		}
		if strings.HasPrefix(args[i], "-") {
			return fmt.Errorf("unknown flag: %s", args[i])
		}
		positional = append(positional, args[i])
		i++
	}

	if len(positional) != 2 {
		return fmt.Errorf("usage: yardpilot merge <keep> <remove>")
	}

	d, err := flags.wire()
	if err != nil {
		return err
	}
	defer d.close()

	kept, err := d.service.Merge(context.Background(), positional[0], positional[1], true)
	if err != nil {
		return err
	}
	fmt.Printf("Merged %q into %q: now %d %s\n", positional[1], kept.Name, kept.Quantity, kept.Unit)
	return nil
}

func runReport(args []string) error {
	var flags flagSink
	lowOnly := false

	for i := 0; i < len(args); {
		n, err := flags.take(args, i)
		if err != nil {
			return err
		}
		if n > 0 {
			i += n
			continue
		}
		if args[i] == "--low" {
			lowOnly = true
			i++
			continue
		}
		return fmt.Errorf("unknown flag: %s", args[i])
	}

	d, err := flags.wire()
	if err != nil {
		return err
	}
	defer d.close()

	items, err := d.store.ListInventory(context.Background())
	if err != nil {
		return err
	}

	printed := 0
	for _, it := range items {
		if lowOnly && !it.LowStock() {
			continue
		}
		line := fmt.Sprintf("%-30s %6d %-10s %s", it.Name, it.Quantity, it.Unit, it.Location)
		if it.LowStock() {
			line += fmt.Sprintf("  [LOW: min %d]", it.MinStock)
		}
		fmt.Println(line)
		printed++
	}
	if printed == 0 {
		if lowOnly {
			fmt.Println("Nothing under its reorder floor.")
		} else {
			fmt.Println("Catalog is empty.")
		}
	}
	return nil
}

func runTransactions(args []string) error {
	var flags flagSink
	limit := 20

	for i := 0; i < len(args); {
		n, err := flags.take(args, i)
		if err != nil {
			return err
		}
		if n > 0 {
			i += n
			continue
		}
		if args[i] == "--limit" {
			if i+1 >= len(args) {
				return fmt.Errorf("--limit requires a value")
			}
			l, err := strconv.Atoi(args[i+1])
			if err != nil || l <= 0 {
				return fmt.Errorf("--limit must be a positive integer")
			}
			limit = l
			i += 2
			continue
		}
		return fmt.Errorf("unknown flag: %s", args[i])
	}

	d, err := flags.wire()
	if err != nil {
		return err
	}
	defer d.close()

	txs, err := d.store.ListTransactions(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		fmt.Println("No transactions recorded.")
		return nil
	}

	for _, tx := range txs {
		line := fmt.Sprintf("%s  %-6s %-30s %+d %s (total %d)",
			tx.Timestamp.Format("2006-01-02 15:04"), tx.Action, tx.Item, tx.Delta, tx.Unit, tx.Total)
		if tx.Note != "" {
			line += "  " + tx.Note
		}
		fmt.Println(line)
	}
	return nil
}
