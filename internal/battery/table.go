package battery

import (
	"net/http"

	"rest-recon/internal/model"
)

// Messages the abilities run endpoint returns for a wrong HTTP method.
const (
	MsgReadonlyNeedsGet     = "Read-only abilities require GET method"
	MsgUpdateNeedsPost      = "Abilities that perform updates require POST method"
	MsgDestructiveNeedsDel  = "destructive actions require DELETE method"
	InvalidItemIdentifier   = "invalid-999999"
	InvalidAbilityName      = "invalid-ability-999"
	UnauthorizedItemSegment = "test"
)

var (
	okOrMissing  = []int{http.StatusOK, http.StatusNotFound}
	authOutcomes = []int{http.StatusOK, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound}
	notFound     = []int{http.StatusBadRequest, http.StatusNotFound}
	executed     = []int{http.StatusOK, http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound}
	wrongMethod  = []int{http.StatusMethodNotAllowed}

	readonly    = map[string]bool{"readonly": true}
	updating    = map[string]bool{"readonly": false, "destructive": false}
	destructive = map[string]bool{"destructive": true, "idempotent": true}
)

var collectionCases = []Case{
	{
		ID:      "get_all",
		Title:   "Retrieve all %s",
		Purpose: "Lists the collection with credentials. The body must be a JSON array of objects or a keyed object.",
		Method:  http.MethodGet, Auth: true, Target: TargetCollection,
		Accept: okOrMissing,
		Checks: []Check{CheckAggregate},
	},
	{
		ID:      "unauthorized",
		Title:   "Access %s without credentials",
		Purpose: "Lists the collection anonymously. Public collections may answer 200; protected ones must refuse.",
		Method:  http.MethodGet, Auth: false, Target: TargetCollection,
		Accept: authOutcomes,
	},
	{
		ID:      "pagination",
		Title:   "Paginate %s",
		Purpose: "Requests the first page of five items.",
		Method:  http.MethodGet, Auth: true, Target: TargetCollection,
		Query:  &Pagination{Page: 1, PerPage: 5},
		Accept: okOrMissing,
		Checks: []Check{CheckJSON, CheckAggregate},
	},
	{
		ID:      "response_schema",
		Title:   "Validate %s response schema",
		Purpose: "Checks the listing shape and that _links, when present, is an object.",
		Method:  http.MethodGet, Auth: true, Target: TargetCollection,
		Accept: okOrMissing,
		Checks: []Check{CheckAggregate, CheckLinks},
	},
	{
		ID:      "response_content_type",
		Title:   "Check %s content type",
		Purpose: "Checks the response declares a Content-Type.",
		Method:  http.MethodGet, Auth: true, Target: TargetCollection,
		Accept: okOrMissing,
		Checks: []Check{CheckContentType},
	},
	{
		ID:      "response_structure",
		Title:   "Validate %s item structure",
		Purpose: "Checks the first listed item is a non-empty object.",
		Method:  http.MethodGet, Auth: true, Target: TargetCollection,
		Accept: okOrMissing,
		Checks: []Check{CheckAggregate, CheckFirstItem},
	},
	{
		ID:      "head",
		Title:   "HEAD request on %s",
		Purpose: "Sends HEAD. A server that answers must not return a body.",
		Method:  http.MethodHead, Auth: true, Target: TargetCollection,
		Accept:         []int{http.StatusOK, http.StatusNotFound, http.StatusMethodNotAllowed},
		Checks:         []Check{CheckEmptyBody},
		RequiresMethod: http.MethodHead,
	},
}

var singleCases = []Case{
	{
		ID:      "get_valid",
		Title:   "Retrieve a %s that exists",
		Purpose: "Takes an identifier from the live listing and fetches that item.",
		Method:  http.MethodGet, Auth: true, Target: TargetItem,
		Accept: okOrMissing,
		Checks: []Check{CheckObject},
	},
	{
		ID:      "get_invalid",
		Title:   "Retrieve a %s that does not exist",
		Purpose: "Fetches a made-up identifier. Not found is the expected, passing outcome.",
		Method:  http.MethodGet, Auth: true, Target: TargetFixed, Value: InvalidItemIdentifier,
		Accept: notFound,
	},
	{
		ID:      "unauthorized",
		Title:   "Access a %s without credentials",
		Purpose: "Fetches an item anonymously. Public items may answer 200; protected ones must refuse.",
		Method:  http.MethodGet, Auth: false, Target: TargetFixed, Value: UnauthorizedItemSegment,
		Accept: authOutcomes,
	},
	{
		ID:      "response_schema",
		Title:   "Validate %s response schema",
		Purpose: "Checks the item is a non-empty object and _links, when present, is an object.",
		Method:  http.MethodGet, Auth: true, Target: TargetItem,
		Accept: okOrMissing,
		Checks: []Check{CheckObject, CheckLinks},
	},
	{
		ID:      "response_content_type",
		Title:   "Check %s content type",
		Purpose: "Checks the response declares a Content-Type.",
		Method:  http.MethodGet, Auth: true, Target: TargetItem,
		Accept: okOrMissing,
		Checks: []Check{CheckContentType},
	},
	{
		ID:      "response_structure",
		Title:   "Validate %s structure",
		Purpose: "Checks the item carries an id, slug or name.",
		Method:  http.MethodGet, Auth: true, Target: TargetItem,
		Accept: okOrMissing,
		Checks: []Check{CheckObject, CheckIdentifier},
	},
}

// Executing updating or destructive abilities would change the target site,
// so only the method guards are exercised for them.
var actionCases = []Case{
	{
		ID:      "execute_readonly",
		Title:   "Execute a read-only ability on %s",
		Purpose: "Runs a read-only ability with GET.",
		Method:  http.MethodGet, Auth: true, Target: TargetAbility, Filter: readonly,
		Accept: executed,
		Checks: []Check{CheckJSON},
	},
	{
		ID:      "execute_wrong_method",
		Title:   "Reject POST for a read-only ability on %s",
		Purpose: "Runs a read-only ability with POST. The service must answer 405 and name the required method.",
		Method:  http.MethodPost, Auth: true, Target: TargetAbility, Filter: readonly,
		Body:    `{"input":{}}`,
		Accept:  wrongMethod,
		Message: MsgReadonlyNeedsGet,
	},
	{
		ID:      "execute_update_wrong_method",
		Title:   "Reject GET for an updating ability on %s",
		Purpose: "Runs an updating ability with GET. The service must answer 405 and name the required method.",
		Method:  http.MethodGet, Auth: true, Target: TargetAbility, Filter: updating,
		Accept:  wrongMethod,
		Message: MsgUpdateNeedsPost,
	},
	{
		ID:      "execute_destructive_wrong_method",
		Title:   "Reject POST for a destructive ability on %s",
		Purpose: "Runs a destructive ability with POST. The service must answer 405 and name the required method.",
		Method:  http.MethodPost, Auth: true, Target: TargetAbility, Filter: destructive,
		Body:    `{"input":{}}`,
		Accept:  wrongMethod,
		Message: MsgDestructiveNeedsDel,
	},
	{
		ID:      "execute_invalid",
		Title:   "Execute an unknown ability on %s",
		Purpose: "Runs a made-up ability name. Not found is the expected, passing outcome.",
		Method:  http.MethodGet, Auth: true, Target: TargetFixed, Value: InvalidAbilityName,
		Accept: notFound,
	},
	{
		ID:      "execute_unauthorized",
		Title:   "Execute an ability on %s without credentials",
		Purpose: "Runs a read-only ability anonymously.",
		Method:  http.MethodGet, Auth: false, Target: TargetAbility, Filter: readonly,
		Accept: authOutcomes,
	},
	{
		ID:      "response_schema",
		Title:   "Validate %s execution result",
		Purpose: "Checks a successful execution returns JSON.",
		Method:  http.MethodGet, Auth: true, Target: TargetAbility, Filter: readonly,
		Accept: executed,
		Checks: []Check{CheckJSON},
	},
	{
		ID:      "response_structure",
		Title:   "Check %s execution headers",
		Purpose: "Checks a successful execution declares a Content-Type.",
		Method:  http.MethodGet, Auth: true, Target: TargetAbility, Filter: readonly,
		Accept: executed,
		Checks: []Check{CheckContentType},
	},
}

var categoriesCases = []Case{
	collectionCases[0],
	collectionCases[1],
	collectionCases[3],
	collectionCases[4],
}

var genericCases = []Case{
	{
		ID:      "get",
		Title:   "Retrieve %s",
		Purpose: "Requests the endpoint with credentials.",
		Method:  http.MethodGet, Auth: true, Target: TargetCollection,
		Accept: okOrMissing,
	},
	{
		ID:      "unauthorized",
		Title:   "Access %s without credentials",
		Purpose: "Requests the endpoint anonymously.",
		Method:  http.MethodGet, Auth: false, Target: TargetCollection,
		Accept: authOutcomes,
	},
	{
		ID:      "response_schema",
		Title:   "Validate %s response",
		Purpose: "Checks a successful response is JSON.",
		Method:  http.MethodGet, Auth: true, Target: TargetCollection,
		Accept: authOutcomes,
		Checks: []Check{CheckJSON},
	},
	{
		ID:      "response_content_type",
		Title:   "Check %s content type",
		Purpose: "Checks the response declares a Content-Type.",
		Method:  http.MethodGet, Auth: true, Target: TargetCollection,
		Accept: authOutcomes,
		Checks: []Check{CheckContentType},
	},
}

var table = map[model.ResourceType][]Case{
	model.ResourceCollection: collectionCases,
	model.ResourceSingle:     singleCases,
	model.ResourceAction:     actionCases,
	model.ResourceCategories: categoriesCases,
	model.ResourceGeneric:    genericCases,
}
