// Package churn holds the TelecomX-specific cleaning steps, binary recoding,
// derived features and churn-rate aggregation.
package churn

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"go.uber.org/zap"

	"github.com/KaramelBytes/telecomx-cli/internal/frame"
	"github.com/KaramelBytes/telecomx-cli/internal/logging"
)

// Column names produced by flattening the TelecomX payload.
const (
	ColCustomerID      = "customerID"
	ColChurn           = "Churn"
	ColSeniorCitizen   = "customer_SeniorCitizen"
	ColPartner         = "customer_Partner"
	ColDependents      = "customer_Dependents"
	ColTenure          = "customer_tenure"
	ColPhoneService    = "phone_PhoneService"
	ColMultipleLines   = "phone_MultipleLines"
	ColInternetService = "internet_InternetService"
	ColContract        = "account_Contract"
	ColPaperless       = "account_PaperlessBilling"
	ColPaymentMethod   = "account_PaymentMethod"
	ColChargesMonthly  = "account_Charges_Monthly"
	ColChargesTotal    = "account_Charges_Total"

	ColServiceDescription = "internet_Service_Description"
	ColAdditionalServices = "additional_InternetService"
	ColOnlyPhone          = "only_PhoneService"
	ColOnlyInternet       = "only_InternetService"
	ColBothServices       = "both_Phone_InternetService"
	ColDaily              = "account_Daily"
)

// InternetAddOns are the per-service internet columns.
var InternetAddOns = []string{
	"internet_OnlineSecurity",
	"internet_OnlineBackup",
	"internet_DeviceProtection",
	"internet_TechSupport",
	"internet_StreamingTV",
	"internet_StreamingMovies",
}

// YesNoColumns are recoded No/Yes to 0/1 by RecodeBinary.
var YesNoColumns = append([]string{
	ColChurn,
	ColPartner,
	ColDependents,
	ColPhoneService,
	ColMultipleLines,
	ColPaperless,
}, InternetAddOns...)

// Domain describes a low-cardinality column.
type Domain struct {
	Column   string
	Distinct int
	Values   []string
}

// ExtractCategorical returns the columns with at most maxDistinct distinct
// non-missing values, in frame order.
func ExtractCategorical(df dataframe.DataFrame, maxDistinct int, log *zap.Logger) ([]Domain, error) {
	log = logging.OrNop(log)
	var out []Domain
	for _, name := range df.Names() {
		n, err := frame.NUnique(df, name)
		if err != nil {
			return nil, err
		}
		if n > maxDistinct {
			continue
		}
		vals, err := frame.Unique(df, name)
		if err != nil {
			return nil, err
		}
		log.Debug("categorical column", zap.String("column", name), zap.Int("distinct", n), zap.Strings("values", vals))
		out = append(out, Domain{Column: name, Distinct: n, Values: vals})
	}
	return out, nil
}

// DomainColumns returns the column names of ds.
func DomainColumns(ds []Domain) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Column
	}
	return out
}

// ExtractNumeric returns every column not listed in categorical, minus drop.
// Dropping a column that is not part of the remainder is an error.
func ExtractNumeric(df dataframe.DataFrame, categorical, drop []string, log *zap.Logger) ([]string, error) {
	skip := make(map[string]struct{}, len(categorical))
	for _, c := range categorical {
		skip[c] = struct{}{}
	}
	var rest []string
	for _, name := range df.Names() {
		if _, ok := skip[name]; !ok {
			rest = append(rest, name)
		}
	}
	for _, d := range drop {
		i := indexOf(rest, d)
		if i < 0 {
			return nil, fmt.Errorf("drop %q: not among the non-categorical columns", d)
		}
		rest = append(rest[:i], rest[i+1:]...)
	}
	logging.OrNop(log).Debug("numeric columns", zap.Strings("columns", rest))
	return rest, nil
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}
