package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/views"
)

// =============================================================================
// PRODUCTS
// =============================================================================

func newProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the catalog",
	}

	var in ledger.ProductInput
	var gender, cost, price string
	addCmd := &cobra.Command{
		Use:   "add <sku>",
		Short: "Add a product with zero stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			in.ID = args[0]
			in.Gender = ledger.Gender(strings.ToUpper(gender))
			if in.CostPrice, err = parseMoney("cost", cost); err != nil {
				return err
			}
			if in.SalePrice, err = parseMoney("price", price); err != nil {
				return err
			}
			p, res := app.Engine.CreateProduct(cmd.Context(), in)
			return finish(cmd, res, p)
		},
	}
	addCmd.Flags().StringVar(&in.Name, "name", "", "name")
	addCmd.Flags().StringVar(&in.Brand, "brand", "", "brand")
	addCmd.Flags().StringVar(&gender, "gender", "UNISEX", "HOMBRE|MUJER|UNISEX")
	addCmd.Flags().StringVar(&cost, "cost", "0", "cost price")
	addCmd.Flags().StringVar(&price, "price", "0", "sale price")

	var output string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			products := app.Engine.Snapshot().Products
			if output == "json" {
				return printJSON(cmd.OutOrStdout(), products)
			}
			for _, p := range products {
				fmt.Fprintf(cmd.OutOrStdout(), "%s | %s | %s | %d | tester %d | %s\n",
					p.ID, p.Name, p.Brand, p.Stock, p.TesterStock, p.SalePrice.StringFixed(0))
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&output, "output", "", "output format: json")

	deleteCmd := &cobra.Command{
		Use:   "delete <sku>",
		Short: "Delete a product; its history is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return finish(cmd, app.Engine.DeleteProduct(cmd.Context(), args[0]), nil)
		},
	}

	cmd.AddCommand(addCmd, listCmd, deleteCmd)
	return cmd
}

// =============================================================================
// PURCHASES & SALES
// =============================================================================

func newPurchaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Record stock entries",
	}

	var in ledger.PurchaseInput
	var cost, date, doc string
	addCmd := &cobra.Command{
		Use:   "add <sku> <quantity>",
		Short: "Record a purchase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			in.ProductID = args[0]
			if in.Quantity, err = parseQuantity(args[1]); err != nil {
				return err
			}
			if in.UnitCost, err = parseMoney("cost", cost); err != nil {
				return err
			}
			if in.Date, err = parseDate("date", date); err != nil {
				return err
			}
			in.DocumentType = ledger.DocumentType(strings.ToUpper(doc))
			p, res := app.Engine.CreatePurchase(cmd.Context(), in)
			return finish(cmd, res, p)
		},
	}
	addCmd.Flags().StringVar(&cost, "cost", "0", "unit cost")
	addCmd.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&in.Supplier, "supplier", "", "supplier")
	addCmd.Flags().StringVar(&doc, "doc-type", "FACTURA", "FACTURA|BOLETA|GUIA DE DESPACHO|OTRO")
	addCmd.Flags().StringVar(&in.DocumentNumber, "doc-number", "", "document number")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a purchase and take its units back out of stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return finish(cmd, app.Engine.DeletePurchase(cmd.Context(), args[0]), nil)
		},
	}

	cmd.AddCommand(addCmd, deleteCmd)
	return cmd
}

func newSaleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record stock exits",
	}

	var in ledger.SaleInput
	var price, date string
	addCmd := &cobra.Command{
		Use:   "add <sku> <quantity>",
		Short: "Record a sale",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			in.ProductID = args[0]
			if in.Quantity, err = parseQuantity(args[1]); err != nil {
				return err
			}
			if in.Date, err = parseDate("date", date); err != nil {
				return err
			}
			if price == "" {
				// default to the catalog price
				if p, ok := app.Store.Product(in.ProductID); ok {
					in.UnitPrice = p.SalePrice
				}
			} else if in.UnitPrice, err = parseMoney("price", price); err != nil {
				return err
			}
			s, res := app.Engine.CreateSale(cmd.Context(), in)
			return finish(cmd, res, s)
		},
	}
	addCmd.Flags().StringVar(&price, "price", "", "unit price (default catalog price)")
	addCmd.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&in.CustomerID, "customer", "", "customer id")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a sale and return its units to stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return finish(cmd, app.Engine.DeleteSale(cmd.Context(), args[0]), nil)
		},
	}

	cmd.AddCommand(addCmd, deleteCmd)
	return cmd
}

// =============================================================================
// TESTERS & CUSTOMERS
// =============================================================================

func newTesterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tester",
		Short: "Open or retire display testers",
	}
	convertCmd := &cobra.Command{
		Use:   "convert <sku>",
		Short: "Turn one sellable unit into a tester",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adj, res := app.Engine.ConvertToTester(cmd.Context(), args[0])
			return finish(cmd, res, adj)
		},
	}
	consumeCmd := &cobra.Command{
		Use:   "consume <sku>",
		Short: "Retire the active tester",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adj, res := app.Engine.ConsumeTester(cmd.Context(), args[0])
			return finish(cmd, res, adj)
		},
	}
	cmd.AddCommand(convertCmd, consumeCmd)
	return cmd
}

func newCustomerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage customers",
	}

	var in ledger.CustomerInput
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			c, res := app.Engine.CreateCustomer(cmd.Context(), in)
			return finish(cmd, res, c)
		},
	}
	addCmd.Flags().StringVar(&in.Phone, "phone", "", "phone")
	addCmd.Flags().StringVar(&in.Email, "email", "", "email")
	addCmd.Flags().StringVar(&in.Notes, "notes", "", "notes")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), app.Engine.Snapshot().Customers)
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show a customer's purchases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := views.History(app.Engine.Snapshot(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), h)
		},
	}

	cmd.AddCommand(addCmd, listCmd, historyCmd)
	return cmd
}

func parseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return n, nil
}
