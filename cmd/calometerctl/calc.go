package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Run the calculators without touching the database",
}

var (
	calcHeight   float64
	calcWeight   float64
	calcGender   string
	calcAge      int
	calcActivity string
)

func calcMetrics() domain.BodyMetrics {
	return domain.BodyMetrics{HeightCm: calcHeight, WeightKg: calcWeight, Gender: calcGender, Age: calcAge}
}

var calcBMICmd = &cobra.Command{
	Use:   "bmi",
	Short: "Body mass index and category",
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := domain.NewBMIRecord("", calcMetrics())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "BMI: %.2f\nCategory: %s\nAdvice: %s\n", rec.BMI, rec.Category, domain.BMIRecommendation(rec.Category))
		return nil
	},
}

var calcCaloriesCmd = &cobra.Command{
	Use:   "calories",
	Short: "BMR, daily needs and goal targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := domain.NewCalorieCalculation("", calcMetrics(), calcActivity)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "BMR: %.2f kcal\n", rec.BMR)
		fmt.Fprintf(out, "Activity: %s (x%.3f)\n", domain.ActivityLevelLabel(rec.ActivityMultiplier), rec.ActivityMultiplier)
		fmt.Fprintf(out, "Daily needs: %.2f kcal\n", rec.DailyCalories)
		fmt.Fprintf(out, "Lose: %d\tMaintain: %d\tGain: %d\n", rec.RecommendLose, rec.RecommendMaintain, rec.RecommendGain)
		fmt.Fprintf(out, "Suggested water: %d ml\n", domain.RecommendedWater(rec.ActivityMultiplier))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.AddCommand(calcBMICmd, calcCaloriesCmd)

	for _, c := range []*cobra.Command{calcBMICmd, calcCaloriesCmd} {
		c.Flags().Float64Var(&calcHeight, "height", 0, "Height in cm")
		c.Flags().Float64Var(&calcWeight, "weight", 0, "Weight in kg")
		c.Flags().StringVar(&calcGender, "gender", "", "male or female")
		c.Flags().IntVar(&calcAge, "age", 0, "Age in years")
		_ = c.MarkFlagRequired("height")
		_ = c.MarkFlagRequired("weight")
		_ = c.MarkFlagRequired("gender")
		_ = c.MarkFlagRequired("age")
	}
	calcCaloriesCmd.Flags().StringVar(&calcActivity, "activity", domain.ActivitySedentary, "Activity level (sedentary, lightly_active, moderately_active, very_active, extremely_active)")
}
