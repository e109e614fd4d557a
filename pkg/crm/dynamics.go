package crm

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/priceflex/intercept/pkg/crm/query"
	"github.com/priceflex/intercept/pkg/domain"
)

const dynAPIPrefix = "/api/data/v9.2"

// dynEntitySets maps Dynamics logical object names to their Web API entity
// sets for record fetches. FindByQuery FROM clauses name entity sets
// directly.
var dynEntitySets = map[string]string{
	"account":     "accounts",
	"opportunity": "opportunities",
}

// NewDynamics creates the Microsoft Dynamics 365 variant. Queries compile to
// Web API $filter requests; records come back under "value".
func NewDynamics(cfg Config) Manager {
	return newManager(profile{
		backend:           domain.BackendDynamics,
		accountObject:     "account",
		opportunityObject: "opportunity",
		fields: map[string]map[string]string{
			"account": {
				"id":            "accountid",
				"name":          "name",
				"industry":      "industrycode",
				"annualRevenue": "revenue",
				"owner":         "_ownerid_value",
			},
			"opportunity": {
				"id":      "opportunityid",
				"name":    "name",
				"amount":  "estimatedvalue",
				"stage":   "stepname",
				"account": "_parentaccountid_value",
			},
		},
		currentUserPath: dynAPIPrefix + "/WhoAmI",
		userFrom: func(resp any) (domain.User, error) {
			rec, err := identityRecord(resp)
			if err != nil {
				return domain.User{}, err
			}
			// WhoAmI only reports IDs; the GUID serves as the login.
			u := domain.User{}
			u.Login, _ = rec["UserId"].(string)
			return u, nil
		},
		recordPath: func(object, id string) string {
			set, ok := dynEntitySets[object]
			if !ok {
				set = object + "s"
			}
			return fmt.Sprintf("%s/%s(%s)", dynAPIPrefix, set, id)
		},
		recordURL: func(base, object, id string) string {
			params := url.Values{
				"etn":      {object},
				"pagetype": {"entityrecord"},
				"id":       {id},
			}
			return base + "/main.aspx?" + params.Encode()
		},
		serviceURL: func(base, path string) string {
			return base + dynAPIPrefix + path
		},
		allowedOps: allComparisons,
		findRequest: func(q *query.Query) (string, string, any) {
			params := url.Values{"$select": {strings.Join(q.Fields, ",")}}
			if filter := query.ODataFilter(q.Where); filter != "" {
				params.Set("$filter", filter)
			}
			return "GET", fmt.Sprintf("%s/%s?%s", dynAPIPrefix, q.Object, params.Encode()), nil
		},
		unwrapList: listUnder("value"),
		unwrapOne:  identityRecord,
	}, cfg)
}
