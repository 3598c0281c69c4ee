package churn

import (
	"context"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/telecomx-cli/internal/frame"
	"github.com/KaramelBytes/telecomx-cli/internal/source"
)

func loadSample(t *testing.T) dataframe.DataFrame {
	t.Helper()
	l := &source.Loader{}
	df, err := l.LoadNormalized(context.Background(), "testdata/telecomx_sample.json")
	require.NoError(t, err)
	require.Equal(t, 10, df.Nrow())
	return df
}

func TestExtractCategoricalAndNumeric(t *testing.T) {
	df := loadSample(t)
	doms, err := ExtractCategorical(df, 5, nil)
	require.NoError(t, err)
	cats := DomainColumns(doms)
	assert.Len(t, cats, 17)
	assert.Equal(t, ColChurn, cats[0])
	assert.Equal(t, []string{"", "No", "Yes"}, doms[0].Values)
	assert.NotContains(t, cats, ColTenure)

	nums, err := ExtractNumeric(df, cats, []string{ColCustomerID}, nil)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{ColTenure, ColChargesMonthly, ColChargesTotal}, nums); diff != "" {
		t.Fatalf("numeric columns mismatch (-want +got):\n%s", diff)
	}

	_, err = ExtractNumeric(df, cats, []string{ColChurn}, nil)
	assert.Error(t, err)
}

func TestTreatInvalid(t *testing.T) {
	df := loadSample(t)
	df, rep, err := TreatInvalid(df, nil)
	require.NoError(t, err)
	assert.Equal(t, InvalidReport{
		ChurnBefore:        1,
		TotalChargesBefore: 1,
		LinesWithoutPhone:  1,
	}, rep)

	churn, _ := frame.Strings(df, ColChurn)
	assert.Equal(t, "No", churn[5])
	total, _ := frame.Strings(df, ColChargesTotal)
	assert.Equal(t, "0", total[6])
}

func TestTreatInvalidMissingColumn(t *testing.T) {
	df, err := frame.FromRecords([]string{ColChurn}, [][]string{{"No"}})
	require.NoError(t, err)
	_, _, err = TreatInvalid(df, nil)
	assert.ErrorIs(t, err, frame.ErrColumnNotFound)
}

func TestPrepare(t *testing.T) {
	res, err := Prepare(loadSample(t), nil)
	require.NoError(t, err)
	df := res.Frame

	assert.Len(t, res.Binary, 14)
	assert.Equal(t, ColInternetService, res.Binary[12])
	assert.Equal(t, ColSeniorCitizen, res.Binary[13])

	assert.Equal(t, series.Int, df.Col(ColChurn).Type())
	assert.Equal(t, []int{0, 0, 1, 1, 1, 0, 0, 0, 0, 0}, mustInts(t, df, ColChurn))
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 1, 1, 0, 1}, mustInts(t, df, ColInternetService))
	assert.Equal(t, []int{0, 1, 0, 0, 0, 0, 1, 0, 1, 0}, mustInts(t, df, ColMultipleLines))

	desc, _ := frame.Strings(df, ColServiceDescription)
	assert.Equal(t, "Fiber optic", desc[2])
	assert.Equal(t, "No", desc[8])

	assert.Equal(t, []int{3, 1, 1, 4, 2, 3, 6, 1, 0, 2}, mustInts(t, df, ColAdditionalServices))
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, 0, 1, 0}, mustInts(t, df, ColOnlyPhone))
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, 1, 0, 0}, mustInts(t, df, ColOnlyInternet))
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 1, 0, 0, 1}, mustInts(t, df, ColBothServices))

	daily := df.Col(ColDaily).Float()
	assert.InDelta(t, 65.6/30, daily[0], 1e-9)
	total := df.Col(ColChargesTotal).Float()
	assert.Equal(t, series.Float, df.Col(ColChargesTotal).Type())
	assert.Equal(t, 0.0, total[6])
	assert.InDelta(t, 593.3, total[0], 1e-9)
}

func TestByCategory(t *testing.T) {
	res, err := Prepare(loadSample(t), nil)
	require.NoError(t, err)

	got, err := ByCategory(res.Frame, ColContract)
	require.NoError(t, err)
	want := []CategoryRate{
		{Category: "Month-to-month", Customers: 6, PercTotalCustomer: 60, Churned: 3, PercChurnCustomer: 50},
		{Category: "One year", Customers: 1, PercTotalCustomer: 10, Churned: 0, PercChurnCustomer: 0},
		{Category: "Two year", Customers: 3, PercTotalCustomer: 30, Churned: 0, PercChurnCustomer: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("contract rates mismatch (-want +got):\n%s", diff)
	}

	got, err = ByCategory(res.Frame, ColSeniorCitizen)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[1].Category)
	assert.Equal(t, 66.67, got[1].PercChurnCustomer)
	assert.Equal(t, 14.29, got[0].PercChurnCustomer)

	rf := RatesFrame(ColContract, got)
	assert.Equal(t, []string{ColContract, "customer", "perc_total_customer", "churn", "perc_churn_customer"}, rf.Names())

	_, err = ByCategory(res.Frame, "nope")
	assert.ErrorIs(t, err, frame.ErrColumnNotFound)
}

func mustInts(t *testing.T, df dataframe.DataFrame, name string) []int {
	t.Helper()
	v, err := df.Col(name).Int()
	require.NoError(t, err)
	return v
}
