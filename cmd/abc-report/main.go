package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/Gunvolt24/wb_abc/internal/abc"
	"github.com/Gunvolt24/wb_abc/internal/domain"
)

// CLI-приложение для офлайн ABC-классификации: читает массив заказов
// в формате Statistics API из файла (или stdin) и печатает отчёт таблицей.
func main() {
	inputPath := flag.String("in", "", "path to orders JSON (array). If empty, reads from stdin.")
	thresholdA := flag.Float64("a", 80, "cumulative revenue share boundary for class A, percent")
	thresholdB := flag.Float64("b", 95, "cumulative revenue share boundary for class B, percent")
	keepCancelled := flag.Bool("keep-cancelled", false, "include cancelled orders in the report")
	asJSON := flag.Bool("json", false, "print the report as JSON instead of a table")
	flag.Parse()

	var reader io.Reader = os.Stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open input: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		reader = f
	}

	var orders []domain.OrderRecord
	if err := json.NewDecoder(reader).Decode(&orders); err != nil {
		fmt.Fprintf(os.Stderr, "decode orders: %v\n", err)
		os.Exit(1)
	}

	items := abc.Classify(orders, abc.Params{
		ThresholdA:       *thresholdA,
		ThresholdB:       *thresholdB,
		ExcludeCancelled: !*keepCancelled,
	})

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			fmt.Fprintf(os.Stderr, "encode report: %v\n", err)
			os.Exit(1)
		}
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CLASS\tNM_ID\tARTICLE\tBRAND\tORDERS\tREVENUE\tSHARE%\tCUM%")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\t%.2f\t%.2f\t%.2f\n",
			it.Tier, it.NmID, it.SupplierArticle, it.Brand,
			it.OrdersCount, it.Revenue, it.RevenueShare, it.CumulativeShare)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "print report: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "report ok (orders=%d products=%d)\n", len(orders), len(items))
}
