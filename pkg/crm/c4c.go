package crm

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/priceflex/intercept/pkg/crm/query"
	"github.com/priceflex/intercept/pkg/domain"
)

const c4cAPIPrefix = "/sap/c4c/odata/v1/c4codataapi"

// NewC4C creates the SAP Cloud for Customer variant. Queries compile to
// OData $filter requests against c4codataapi collections; FROM names the
// collection verbatim (e.g. "CorporateAccountCollection"). The OData v2
// envelope nests results under d.results.
func NewC4C(cfg Config) Manager {
	return newManager(profile{
		backend:           domain.BackendC4C,
		accountObject:     "CorporateAccount",
		opportunityObject: "Opportunity",
		fields: map[string]map[string]string{
			"CorporateAccount": {
				"id":              "ObjectID",
				"accountId":       "AccountID",
				"name":            "BusinessPartnerFormattedName",
				"lifeCycleStatus": "LifeCycleStatusCode",
				"role":            "RoleCode",
			},
			"Opportunity": {
				"id":            "ObjectID",
				"name":          "Name",
				"account":       "ProspectPartyID",
				"expectedValue": "ExpectedRevenueAmount",
				"status":        "LifeCycleStatusCode",
			},
		},
		// c4codataapi exposes no caller-identity endpoint; CurrentUser stays
		// unsupported on this backend.
		currentUserPath: "",
		recordPath: func(object, id string) string {
			return fmt.Sprintf("%s/%sCollection('%s')", c4cAPIPrefix, object, id)
		},
		recordURL: func(base, object, id string) string {
			params := url.Values{
				"bo":        {strings.ToUpper(object)},
				"nav_mode":  {"TI"},
				"param.Key": {id},
			}
			return base + "/sap/ap/ui/runtime?" + params.Encode()
		},
		serviceURL: func(base, path string) string {
			return base + c4cAPIPrefix + path
		},
		allowedOps: allComparisons,
		findRequest: func(q *query.Query) (string, string, any) {
			params := url.Values{
				"$select": {strings.Join(q.Fields, ",")},
				"$format": {"json"},
			}
			if filter := query.ODataFilter(q.Where); filter != "" {
				params.Set("$filter", filter)
			}
			return "GET", fmt.Sprintf("%s/%s?%s", c4cAPIPrefix, q.Object, params.Encode()), nil
		},
		unwrapList: func(resp any) ([]map[string]any, error) {
			env, ok := asMap(resp)
			if !ok {
				return nil, fmt.Errorf("unexpected response shape %T", resp)
			}
			d, ok := asMap(env["d"])
			if !ok {
				return nil, fmt.Errorf("response envelope has no d wrapper")
			}
			return listUnder("results")(d)
		},
		unwrapOne: func(resp any) (map[string]any, error) {
			env, ok := asMap(resp)
			if !ok {
				return nil, fmt.Errorf("unexpected record shape %T", resp)
			}
			if d, ok := asMap(env["d"]); ok {
				return d, nil
			}
			return env, nil
		},
	}, cfg)
}
