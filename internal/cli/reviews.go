package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jengzang/places-backend-go/internal/models"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Work the place review queue",
}

var reviewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending reviews by priority",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		reviews, err := a.Review.ListPending(cmd.Context(), 100)
		if err != nil {
			return err
		}
		if len(reviews) == 0 {
			fmt.Println("No pending reviews.")
			return nil
		}

		for _, rev := range reviews {
			place, err := a.Place.GetPlaceByID(cmd.Context(), rev.PlaceID)
			if err != nil {
				fmt.Printf("P%d  %s  (place missing: %v)\n", rev.Priority, rev.ID, err)
				continue
			}
			fmt.Printf("P%d  %s  %-42s %-10s conf=%.2f visits=%d\n",
				rev.Priority, rev.ID, place.Name, place.Category, place.Confidence, place.VisitCount)
		}
		return nil
	},
}

var reviewsApproveCmd = &cobra.Command{
	Use:   "approve <review-id>",
	Short: "Approve a pending review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Review.Approve(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Approved.")
		return nil
	},
}

var (
	editCategory string
	editName     string
)

var reviewsEditCmd = &cobra.Command{
	Use:   "edit-approve <review-id>",
	Short: "Approve a pending review with corrections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category := models.Category(editCategory)
		if !category.IsValid() {
			return fmt.Errorf("unknown category: %s", editCategory)
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Review.EditApprove(cmd.Context(), args[0], category, editName); err != nil {
			return err
		}
		fmt.Println("Approved with corrections.")
		return nil
	},
}

var reviewsRejectCmd = &cobra.Command{
	Use:   "reject <review-id>",
	Short: "Reject a pending review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Review.Reject(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Rejected.")
		return nil
	},
}

func init() {
	reviewsEditCmd.Flags().StringVar(&editCategory, "category", "", "corrected category (required)")
	reviewsEditCmd.Flags().StringVar(&editName, "name", "", "corrected name (optional)")
	reviewsEditCmd.MarkFlagRequired("category")

	reviewsCmd.AddCommand(reviewsListCmd, reviewsApproveCmd, reviewsEditCmd, reviewsRejectCmd)
	rootCmd.AddCommand(reviewsCmd)
}
