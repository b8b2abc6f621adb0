package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"agriport/internal/api"
	"agriport/internal/render"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Marketplace commands",
	Long:  `Browse the marketplace: list, search and view products, and reserve produce as a buyer.`,
}

var listProductsCmd = &cobra.Command{
	Use:   "list",
	Short: "List marketplace products",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		var params api.ListProductsParams
		params.Page, _ = cmd.Flags().GetInt("page")
		params.Search, _ = cmd.Flags().GetString("search")
		params.Category, _ = cmd.Flags().GetString("category")
		params.Urgent, _ = cmd.Flags().GetBool("urgent")

		list, err := client.ListProducts(cmd.Context(), params)
		if err != nil {
			return err
		}

		if len(list.Products) == 0 {
			fmt.Println("No products found.")
			return nil
		}

		fmt.Printf("Page %d of %d:\n\n", list.Page, list.TotalPages)
		for _, p := range list.Products {
			printProduct(p)
		}
		return nil
	},
}

var getProductCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product ID: %w", err)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		p, err := client.GetProduct(cmd.Context(), id)
		if err != nil {
			return err
		}

		printProduct(*p)
		if p.Description != "" {
			fmt.Printf("Description: %s\n", p.Description)
		}
		if p.ImageURL != "" {
			fmt.Printf("Image: %s\n", p.ImageURL)
		}
		return nil
	},
}

var reserveProductCmd = &cobra.Command{
	Use:   "reserve [product-id]",
	Short: "Reserve a quantity of a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product ID: %w", err)
		}
		quantity, _ := cmd.Flags().GetFloat64("quantity")
		pickupDate, _ := cmd.Flags().GetString("pickup-date")

		if _, err := requireSession(); err != nil {
			return err
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		result, err := client.CreateReservation(cmd.Context(), &api.CreateReservationRequest{
			ProductID:  productID,
			Quantity:   quantity,
			PickupDate: pickupDate,
		})
		if err != nil {
			return err
		}

		r := result.Reservation
		fmt.Println("✓ Reservation placed!")
		fmt.Printf("Reservation %d: %.2f x %s, total %.2f, status %s\n",
			r.ID, r.Quantity, r.ProductName, r.TotalPrice, r.Status)
		return nil
	},
}

var reservationsCmd = &cobra.Command{
	Use:   "reservations",
	Short: "List your reservations",
	Long:  `Buyers see the reservations they placed; farmers see reservations against their products.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		list, err := client.ListReservations(cmd.Context())
		if err != nil {
			return err
		}

		if len(list.Reservations) == 0 {
			fmt.Println("No reservations.")
			return nil
		}

		for _, r := range list.Reservations {
			status := string(r.Status)
			switch r.Status {
			case api.ReservationApproved, api.ReservationComplete:
				status = color.GreenString(status)
			case api.ReservationRejected:
				status = color.RedString(status)
			case api.ReservationPending:
				status = color.YellowString(status)
			}
			fmt.Printf("[%d] %s — %.2f for %.2f (%s)\n", r.ID, r.ProductName, r.Quantity, r.TotalPrice, status)
			if r.PickupDate != "" {
				fmt.Printf("  Pickup: %s\n", r.PickupDate)
			}
			fmt.Printf("  %s\n", render.RelativeTime(r.CreatedAt, time.Now()))
			fmt.Println(strings.Repeat("-", 50))
		}
		return nil
	},
}

func printProduct(p api.Product) {
	name := p.Name
	if p.IsUrgent {
		name = color.RedString("%s [URGENT]", name)
	}
	fmt.Printf("[%d] %s\n", p.ID, name)
	fmt.Printf("  %.2f per %s, %.2f available\n", p.Price, p.Unit, p.Quantity)
	fmt.Printf("  %s · by %s\n", p.Category, p.FarmerName)
	fmt.Println(strings.Repeat("-", 50))
}

func init() {
	productsCmd.AddCommand(listProductsCmd)
	productsCmd.AddCommand(getProductCmd)
	productsCmd.AddCommand(reserveProductCmd)

	listProductsCmd.Flags().Int("page", 0, "Page number")
	listProductsCmd.Flags().StringP("search", "s", "", "Search products by name")
	listProductsCmd.Flags().StringP("category", "c", "", "Filter by category")
	listProductsCmd.Flags().Bool("urgent", false, "Only show urgent sales")

	reserveProductCmd.Flags().Float64P("quantity", "q", 1, "Quantity to reserve")
	reserveProductCmd.Flags().String("pickup-date", "", "Pickup date (YYYY-MM-DD)")
	reserveProductCmd.MarkFlagRequired("quantity")

	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(reservationsCmd)
}
