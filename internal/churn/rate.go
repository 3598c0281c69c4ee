package churn

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/telecomx-cli/internal/frame"
	"github.com/KaramelBytes/telecomx-cli/internal/stats"
)

// CategoryRate is one row of the churn-by-category table.
type CategoryRate struct {
	Category          string  `json:"category"`
	Customers         int     `json:"customer"`
	PercTotalCustomer float64 `json:"perc_total_customer"`
	Churned           int     `json:"churn"`
	PercChurnCustomer float64 `json:"perc_churn_customer"`
}

// ByCategory groups customers by category and reports how many churned.
// Rows follow the sorted category values; missing categories are dropped.
// Churn must already be recoded to 0/1.
func ByCategory(df dataframe.DataFrame, category string) ([]CategoryRate, error) {
	if err := frame.MustHave(df, category, ColChurn); err != nil {
		return nil, err
	}
	levels, err := frame.Unique(df, category)
	if err != nil {
		return nil, err
	}
	cats, _ := frame.Strings(df, category)
	churn, _ := frame.Floats(df, ColChurn)

	groups := make(map[string][]float64, len(levels))
	for i, c := range cats {
		if churn[i] != churn[i] {
			continue
		}
		groups[c] = append(groups[c], churn[i])
	}
	total := 0
	for _, l := range levels {
		total += len(groups[l])
	}
	out := make([]CategoryRate, 0, len(levels))
	for _, l := range levels {
		g := groups[l]
		r := CategoryRate{Category: l, Customers: len(g), Churned: int(stats.Sum(g))}
		if len(g) > 0 {
			r.PercChurnCustomer = stats.RoundHalfEven(stats.ApplyPercent(g), 2)
		}
		if total > 0 {
			r.PercTotalCustomer = stats.RoundHalfEven(float64(len(g))/float64(total)*100, 2)
		}
		out = append(out, r)
	}
	return out, nil
}

// RatesFrame lays rates out as a frame whose first column is named category.
func RatesFrame(category string, rates []CategoryRate) dataframe.DataFrame {
	n := len(rates)
	cats := make([]string, n)
	customers := make([]int, n)
	percTotal := make([]float64, n)
	churned := make([]int, n)
	percChurn := make([]float64, n)
	for i, r := range rates {
		cats[i] = r.Category
		customers[i] = r.Customers
		percTotal[i] = r.PercTotalCustomer
		churned[i] = r.Churned
		percChurn[i] = r.PercChurnCustomer
	}
	return dataframe.New(
		series.New(cats, series.String, category),
		series.New(customers, series.Int, "customer"),
		series.New(percTotal, series.Float, "perc_total_customer"),
		series.New(churned, series.Int, "churn"),
		series.New(percChurn, series.Float, "perc_churn_customer"),
	)
}
