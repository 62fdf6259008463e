package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alextreichler/shopfront/internal/output"
)

func newStatsCmd(a *app) *cobra.Command {
	var top, recent int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog and sales figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			stats, err := db.GetStats(cmd.Context(), top)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			output.Section("Overview")
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Products\t%d\n", stats.TotalProducts)
			fmt.Fprintf(w, "Orders\t%d\n", stats.TotalOrders)
			fmt.Fprintf(w, "Revenue\t%.2f\n", stats.Revenue)
			if err := w.Flush(); err != nil {
				return err
			}

			if len(stats.OrdersByPaymentMethod) > 0 {
				output.Section("Orders by payment method")
				methods := make([]string, 0, len(stats.OrdersByPaymentMethod))
				for m := range stats.OrdersByPaymentMethod {
					methods = append(methods, m)
				}
				sort.Strings(methods)

				w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, m := range methods {
					fmt.Fprintf(w, "%s\t%d\n", m, stats.OrdersByPaymentMethod[m])
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			if len(stats.TopProducts) > 0 {
				output.Section("Top products")
				w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tPRODUCT\tSOLD")
				for _, p := range stats.TopProducts {
					fmt.Fprintf(w, "%d\t%s\t%d\n", p.ProductID, p.ProductName, p.Quantity)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			if recent <= 0 {
				return nil
			}
			orders, err := db.ListOrders(cmd.Context(), recent)
			if err != nil {
				return err
			}
			output.Section("Recent orders")
			if len(orders) == 0 {
				output.Info("No orders yet.")
				return nil
			}
			w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tCUSTOMER\tPAYMENT\tITEMS\tTOTAL")
			for _, o := range orders {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%.2f\n",
					o.ID, o.OrderDate.Format("2006-01-02 15:04"), o.Name, o.PaymentMethod, len(o.Items), o.TotalPrice)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&top, "top", 5, "Number of best-selling products to list")
	cmd.Flags().IntVar(&recent, "recent", 5, "Number of latest orders to list (0 to skip)")
	return cmd
}
