package enrich

import (
	"strings"

	"github.com/sells-group/bureau-etl/internal/model"
)

// accountTypeMap is the curated exact-match taxonomy of raw bureau account
// type strings (lower-cased, trimmed), including the truncated variants some
// integrators emit ("priity sect-", "cpate"). Checked before any keyword
// heuristic.
var accountTypeMap = map[string]string{
	"housing loan":              model.BucketHome,
	"overdraft":                 model.BucketHome,
	"property loan":             model.BucketHome,
	"microfinance housing loan": model.BucketHome,
	"pradhan mantri awas yojana - credit link subsidy scheme may clss": model.BucketHome,
	"pm awas yojana - clss":          model.BucketHome,
	"pradhan mantri awas yojana - clss": model.BucketHome,

	"auto loan":               model.BucketAuto,
	"used car loan":           model.BucketAuto,
	"commercial vehicle loan": model.BucketAuto,
	"two-wheeler loan":        model.BucketAuto,
	"tractor loan":            model.BucketAuto,

	"education loan":   model.BucketEducation,
	"educational loan": model.BucketEducation,

	"gold loan":                      model.BucketGold,
	"priity sect- gold loan [secured]": model.BucketGold,
	"priority sector gold loan":      model.BucketGold,

	"personal loan":                    model.BucketPersonal,
	"sht term personal loan [unsecured]": model.BucketPersonal,
	"short term personal loan":         model.BucketPersonal,
	"loan on credit card":              model.BucketPersonal,
	"p2p personal loan":                model.BucketPersonal,
	"microfinance personal loan":       model.BucketPersonal,
	"loan to professional":             model.BucketPersonal,
	"consumer loan":                    model.BucketPersonal,

	"credit card":           model.BucketCreditCard,
	"kisan credit card":     model.BucketCreditCard,
	"secured credit card":   model.BucketCreditCard,
	"cpate credit card":     model.BucketCreditCard,
	"corporate credit card": model.BucketCreditCard,
	"fleet card":            model.BucketCreditCard,

	"business loan":                          model.BucketBusiness,
	"business loan - priity sect- others":    model.BucketBusiness,
	"loan against bank deposits":             model.BucketBusiness,
	"business loan - priity sect- small business": model.BucketBusiness,
	"business loan - unsecured":              model.BucketBusiness,
	"business loan - priity sect- agriculture": model.BucketBusiness,
	"microfinance business loan":             model.BucketBusiness,
	"loan against shares/securities":         model.BucketBusiness,
	"business loan - secured":                model.BucketBusiness,
	"mudra loans - shishu / kishor / tarun":  model.BucketBusiness,
	"gecl loan secured":                      model.BucketBusiness,
	"gecl loan unsecured":                    model.BucketBusiness,

	"other account types": model.BucketOther,
	"other":               model.BucketOther,
	"others":              model.BucketOther,
}

// Category maps a raw bureau account type string to one of the eight fixed
// buckets. Exact matches win; otherwise ordered keyword heuristics apply.
// The heuristic order matters: "loan on credit card" must hit the exact
// table before the "card" keyword would misroute it.
func Category(raw string) string {
	if raw == "" {
		return model.BucketOther
	}
	key := strings.ToLower(strings.TrimSpace(raw))
	if mapped, ok := accountTypeMap[key]; ok {
		return mapped
	}
	switch {
	case containsAny(key, "housing", "home", "property", "awas"):
		return model.BucketHome
	case strings.Contains(key, "education"):
		return model.BucketEducation
	case containsAny(key, "credit card", "card"):
		return model.BucketCreditCard
	case containsAny(key, "auto", "car", "vehicle", "tractor", "wheeler"):
		return model.BucketAuto
	case containsAny(key, "business", "mudra", "gecl"):
		return model.BucketBusiness
	case containsAny(key, "personal", "consumer"):
		return model.BucketPersonal
	case strings.Contains(key, "gold"):
		return model.BucketGold
	}
	return model.BucketOther
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
