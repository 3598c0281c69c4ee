package churn

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"

	"github.com/KaramelBytes/telecomx-cli/internal/frame"
	"github.com/KaramelBytes/telecomx-cli/internal/logging"
)

// InvalidTokens are the raw values treated as missing. JSON null flattens to "".
var InvalidTokens = []string{"", " ", "Nan"}

// InvalidReport summarises what TreatInvalid found.
type InvalidReport struct {
	ChurnBefore        int `json:"churn_invalid_before"`
	ChurnAfter         int `json:"churn_invalid_after"`
	TotalChargesBefore int `json:"total_charges_invalid_before"`
	TotalChargesAfter  int `json:"total_charges_invalid_after"`
	// customers subscribing to neither phone nor internet
	NoServices int `json:"no_services"`
	// "No phone service" in MultipleLines while PhoneService is "Yes"
	LinesWithoutPhone int `json:"lines_without_phone"`
}

// TreatInvalid fills invalid Churn values with "No" and invalid total charges
// with "0", and counts two service inconsistencies.
func TreatInvalid(df dataframe.DataFrame, log *zap.Logger) (dataframe.DataFrame, InvalidReport, error) {
	log = logging.OrNop(log)
	var rep InvalidReport
	if err := frame.MustHave(df, ColChurn, ColChargesTotal, ColPhoneService, ColInternetService, ColMultipleLines); err != nil {
		return df, rep, err
	}
	var err error
	if rep.ChurnBefore, err = frame.CountIn(df, ColChurn, InvalidTokens); err != nil {
		return df, rep, err
	}
	if rep.TotalChargesBefore, err = frame.CountIn(df, ColChargesTotal, InvalidTokens); err != nil {
		return df, rep, err
	}
	if df, err = frame.Replace(df, ColChurn, InvalidTokens, "No"); err != nil {
		return df, rep, err
	}
	if df, err = frame.Replace(df, ColChargesTotal, InvalidTokens, "0"); err != nil {
		return df, rep, err
	}
	rep.ChurnAfter, _ = frame.CountIn(df, ColChurn, InvalidTokens)
	rep.TotalChargesAfter, _ = frame.CountIn(df, ColChargesTotal, InvalidTokens)

	phone, _ := frame.Strings(df, ColPhoneService)
	internet, _ := frame.Strings(df, ColInternetService)
	lines, _ := frame.Strings(df, ColMultipleLines)
	for i := range phone {
		if phone[i] == "No" && internet[i] == "No" {
			rep.NoServices++
		}
		if lines[i] == "No phone service" && phone[i] == "Yes" {
			rep.LinesWithoutPhone++
		}
	}
	log.Info("invalid values treated",
		zap.Int("churn_before", rep.ChurnBefore),
		zap.Int("churn_after", rep.ChurnAfter),
		zap.Int("total_charges_before", rep.TotalChargesBefore),
		zap.Int("total_charges_after", rep.TotalChargesAfter),
		zap.Int("no_services", rep.NoServices),
		zap.Int("lines_without_phone", rep.LinesWithoutPhone),
	)
	return df, rep, nil
}

// RecodeBinary turns the Yes/No columns and InternetService into 0/1 Int
// columns. It returns the list of binary columns, which also includes
// customer_SeniorCitizen (already 0/1 in the source).
func RecodeBinary(df dataframe.DataFrame, log *zap.Logger) (dataframe.DataFrame, []string, error) {
	log = logging.OrNop(log)
	if err := frame.MustHave(df, YesNoColumns...); err != nil {
		return df, nil, err
	}
	if err := frame.MustHave(df, ColInternetService); err != nil {
		return df, nil, err
	}
	var err error
	if df, err = frame.Replace(df, ColMultipleLines, []string{"No phone service"}, "No"); err != nil {
		return df, nil, err
	}
	for _, c := range InternetAddOns {
		if df, err = frame.Replace(df, c, []string{"No internet service"}, "No"); err != nil {
			return df, nil, err
		}
	}
	yesNo := map[string]string{"No": "0", "Yes": "1"}
	for _, c := range YesNoColumns {
		if vals, uerr := frame.Unique(df, c); uerr == nil {
			log.Debug("recoding column", zap.String("column", c), zap.Strings("values", vals))
		}
		if df, err = frame.Map(df, c, yesNo, series.Int); err != nil {
			return df, nil, err
		}
	}
	if df, err = frame.CopyColumn(df, ColInternetService, ColServiceDescription); err != nil {
		return df, nil, err
	}
	internet := map[string]string{"No": "0", "DSL": "1", "Fiber optic": "1"}
	if df, err = frame.Map(df, ColInternetService, internet, series.Int); err != nil {
		return df, nil, err
	}
	binary := append(append([]string{}, YesNoColumns...), ColInternetService, ColSeniorCitizen)
	return df, binary, nil
}

// DeriveColumns adds the service-combination flags, the add-on count and the
// daily charge. It expects RecodeBinary to have run.
func DeriveColumns(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := frame.MustHave(df, append(InternetAddOns, ColPhoneService, ColInternetService, ColChargesMonthly)...); err != nil {
		return df, err
	}
	n := df.Nrow()
	addOns := make([]int, n)
	for _, c := range InternetAddOns {
		xs, _ := frame.Floats(df, c)
		for i, x := range xs {
			if x == x {
				addOns[i] += int(x)
			}
		}
	}
	phone, _ := frame.Floats(df, ColPhoneService)
	internet, _ := frame.Floats(df, ColInternetService)
	onlyPhone, onlyInternet, both := make([]int, n), make([]int, n), make([]int, n)
	for i := 0; i < n; i++ {
		switch {
		case phone[i] == 1 && internet[i] == 0:
			onlyPhone[i] = 1
		case phone[i] == 0 && internet[i] == 1:
			onlyInternet[i] = 1
		case phone[i] == 1 && internet[i] == 1:
			both[i] = 1
		}
	}
	monthly, _ := frame.Floats(df, ColChargesMonthly)
	daily := make([]float64, n)
	for i, m := range monthly {
		daily[i] = m / 30
	}

	var err error
	if df, err = frame.SetInts(df, ColAdditionalServices, addOns); err != nil {
		return df, err
	}
	if df, err = frame.SetInts(df, ColOnlyPhone, onlyPhone); err != nil {
		return df, err
	}
	if df, err = frame.SetInts(df, ColOnlyInternet, onlyInternet); err != nil {
		return df, err
	}
	if df, err = frame.SetInts(df, ColBothServices, both); err != nil {
		return df, err
	}
	return frame.SetFloats(df, ColDaily, daily)
}

// ConvertTypes casts Churn to Int and coerces the charge columns to Float.
func ConvertTypes(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	var err error
	if df, err = frame.AsType(df, ColChurn, series.Int); err != nil {
		return df, err
	}
	for _, c := range []string{ColChargesTotal, ColChargesMonthly, ColDaily} {
		if df, err = frame.ToNumeric(df, c); err != nil {
			return df, err
		}
	}
	return df, nil
}

// PrepareResult is the output of the full cleaning pipeline.
type PrepareResult struct {
	Frame   dataframe.DataFrame
	Invalid InvalidReport
	Binary  []string
}

// Prepare runs TreatInvalid, RecodeBinary, DeriveColumns and ConvertTypes.
func Prepare(df dataframe.DataFrame, log *zap.Logger) (*PrepareResult, error) {
	log = logging.OrNop(log)
	df, rep, err := TreatInvalid(df, log)
	if err != nil {
		return nil, err
	}
	df, binary, err := RecodeBinary(df, log)
	if err != nil {
		return nil, err
	}
	if df, err = DeriveColumns(df); err != nil {
		return nil, err
	}
	if df, err = ConvertTypes(df); err != nil {
		return nil, err
	}
	log.Debug("dataset prepared", zap.Int("rows", df.Nrow()), zap.Int("columns", df.Ncol()))
	return &PrepareResult{Frame: df, Invalid: rep, Binary: binary}, nil
}
