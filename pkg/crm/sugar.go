package crm

import (
	"fmt"

	"github.com/priceflex/intercept/pkg/crm/query"
	"github.com/priceflex/intercept/pkg/domain"
)

const sugarAPIPrefix = "/rest/v11"

// NewSugarCRM creates the SugarCRM variant. Queries compile to v11 filter
// POST bodies; only equality comparisons are available on this backend, so
// any other operator fails before a request is made.
func NewSugarCRM(cfg Config) Manager {
	return newManager(profile{
		backend:           domain.BackendSugarCRM,
		accountObject:     "Accounts",
		opportunityObject: "Opportunities",
		fields: map[string]map[string]string{
			"Accounts": {
				"id":            "id",
				"name":          "name",
				"industry":      "industry",
				"annualRevenue": "annual_revenue",
				"owner":         "assigned_user_id",
			},
			"Opportunities": {
				"id":      "id",
				"name":    "name",
				"amount":  "amount",
				"stage":   "sales_stage",
				"account": "account_id",
			},
		},
		currentUserPath: sugarAPIPrefix + "/me",
		userFrom: func(resp any) (domain.User, error) {
			rec, err := identityRecord(resp)
			if err != nil {
				return domain.User{}, err
			}
			if cur, ok := asMap(rec["current_user"]); ok {
				rec = cur
			}
			u := domain.User{}
			u.Login, _ = rec["user_name"].(string)
			u.Name, _ = rec["full_name"].(string)
			return u, nil
		},
		recordPath: func(object, id string) string {
			return fmt.Sprintf("%s/%s/%s", sugarAPIPrefix, object, id)
		},
		recordURL: func(base, object, id string) string {
			return fmt.Sprintf("%s/#%s/%s", base, object, id)
		},
		serviceURL: func(base, path string) string {
			return base + sugarAPIPrefix + path
		},
		allowedOps: map[query.Operator]bool{query.OpEq: true},
		findRequest: func(q *query.Query) (string, string, any) {
			return "POST", fmt.Sprintf("%s/%s/filter", sugarAPIPrefix, q.Object), query.SugarFilter(q)
		},
		unwrapList: listUnder("records"),
		unwrapOne:  identityRecord,
	}, cfg)
}
