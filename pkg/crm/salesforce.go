package crm

import (
	"fmt"
	"net/url"

	"github.com/priceflex/intercept/pkg/crm/query"
	"github.com/priceflex/intercept/pkg/domain"
)

const sfAPIPrefix = "/services/data/v61.0"

// NewSalesforce creates the Salesforce variant. Queries compile to SOQL on
// the REST query endpoint; records come back under "records".
func NewSalesforce(cfg Config) Manager {
	return newManager(profile{
		backend:           domain.BackendSalesforce,
		accountObject:     "Account",
		opportunityObject: "Opportunity",
		fields: map[string]map[string]string{
			"Account": {
				"id":            "Id",
				"name":          "Name",
				"industry":      "Industry",
				"annualRevenue": "AnnualRevenue",
				"owner":         "OwnerId",
			},
			"Opportunity": {
				"id":        "Id",
				"name":      "Name",
				"amount":    "Amount",
				"stage":     "StageName",
				"account":   "AccountId",
				"closeDate": "CloseDate",
			},
		},
		currentUserPath: sfAPIPrefix + "/chatter/users/me",
		userFrom: func(resp any) (domain.User, error) {
			rec, err := identityRecord(resp)
			if err != nil {
				return domain.User{}, err
			}
			u := domain.User{}
			u.Login, _ = rec["username"].(string)
			u.Name, _ = rec["name"].(string)
			u.Email, _ = rec["email"].(string)
			return u, nil
		},
		recordPath: func(object, id string) string {
			return fmt.Sprintf("%s/sobjects/%s/%s", sfAPIPrefix, object, id)
		},
		recordURL: func(base, object, id string) string {
			return fmt.Sprintf("%s/lightning/r/%s/%s/view", base, object, id)
		},
		serviceURL: func(base, path string) string {
			return base + sfAPIPrefix + path
		},
		allowedOps: allComparisons,
		findRequest: func(q *query.Query) (string, string, any) {
			params := url.Values{"q": {query.SOQL(q)}}
			return "GET", sfAPIPrefix + "/query?" + params.Encode(), nil
		},
		unwrapList: listUnder("records"),
		unwrapOne:  identityRecord,
	}, cfg)
}
