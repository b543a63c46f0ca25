package calendar

import (
	"net/http"
	"strings"

	"github.com/teemow/calendar-mcp/internal/instrumentation"
)

// Resource names used to group endpoints.
const (
	ResourceACL          = "acl"
	ResourceCalendarList = "calendarList"
	ResourceCalendars    = "calendars"
	ResourceEvents       = "events"
	ResourceFreeBusy     = "freeBusy"
	ResourceColors       = "colors"
	ResourceSettings     = "settings"
	ResourceChannels     = "channels"
)

// Placement says where non-path arguments go in the outgoing request.
type Placement int

const (
	PlacementQuery Placement = iota
	PlacementBody
)

func (p Placement) String() string {
	if p == PlacementBody {
		return "body"
	}
	return "query"
}

// Param is a single declared tool parameter. Every parameter is a string.
type Param struct {
	Name        string
	Description string
	Required    bool
}

// Endpoint is the declarative definition of one tool and the HTTP request it maps to.
type Endpoint struct {
	Name        string
	Description string
	Method      string
	// Path is relative to the base URL, with {name} placeholders for path parameters.
	Path      string
	Resource  string
	Operation string
	Params    []Param
}

// Placement returns PlacementQuery for GET and DELETE, PlacementBody otherwise.
func (e Endpoint) Placement() Placement {
	switch e.Method {
	case http.MethodGet, http.MethodDelete:
		return PlacementQuery
	default:
		return PlacementBody
	}
}

// ReadOnly reports whether the endpoint never modifies calendar data.
func (e Endpoint) ReadOnly() bool {
	return e.Method == http.MethodGet
}

// Destructive reports whether the endpoint removes data.
func (e Endpoint) Destructive() bool {
	return e.Method == http.MethodDelete || e.Operation == instrumentation.OperationClear
}

// PathParams returns the placeholder names of the path template in order.
func (e Endpoint) PathParams() []string {
	var names []string
	rest := e.Path
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			return names
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return names
		}
		names = append(names, rest[start+1:start+end])
		rest = rest[start+end+1:]
	}
}

// Param returns the declared parameter with the given name.
func (e Endpoint) Param(name string) (Param, bool) {
	for _, p := range e.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Endpoints returns every exposed endpoint in registration order.
// The returned slice is a copy and may be modified by the caller.
func Endpoints() []Endpoint {
	out := make([]Endpoint, len(endpoints))
	copy(out, endpoints)
	return out
}

// Lookup returns the endpoint registered under name.
func Lookup(name string) (Endpoint, bool) {
	for _, e := range endpoints {
		if e.Name == name {
			return e, true
		}
	}
	return Endpoint{}, false
}

var paramDescriptions = map[string]string{
	"calendarId":              "Calendar identifier. Use 'primary' for the calendar of the authenticated user",
	"eventId":                 "Event identifier",
	"ruleId":                  "ACL rule identifier",
	"setting":                 "The id of the user setting",
	"destination":             "Calendar identifier of the target calendar",
	"text":                    "The text describing the event to be created",
	"maxResults":              "Maximum number of entries returned on one result page",
	"pageToken":               "Token specifying which result page to return",
	"syncToken":               "Token obtained from the nextSyncToken field of a previous list request",
	"showDeleted":             "Whether to include deleted entries in the result ('true' or 'false')",
	"showHidden":              "Whether to show hidden entries ('true' or 'false')",
	"minAccessRole":           "The minimum access role for the user in the returned entries",
	"sendNotifications":       "Whether to send notifications about the change ('true' or 'false')",
	"sendUpdates":             "Guests who should receive notifications: all, externalOnly or none",
	"colorRgbFormat":          "Whether to use the foregroundColor and backgroundColor fields ('true' or 'false')",
	"alwaysIncludeEmail":      "Deprecated and ignored",
	"eventTypes":              "Event types to return",
	"iCalUID":                 "Specifies an event ID in the iCalendar format to be provided in the response",
	"maxAttendees":            "The maximum number of attendees to include in the response",
	"orderBy":                 "The order of the events returned in the result: startTime or updated",
	"privateExtendedProperty": "Extended properties constraint specified as propertyName=value",
	"q":                       "Free text search terms to find events that match these terms",
	"sharedExtendedProperty":  "Extended properties constraint specified as propertyName=value",
	"showHiddenInvitations":   "Whether to include hidden invitations in the result ('true' or 'false')",
	"singleEvents":            "Whether to expand recurring events into instances ('true' or 'false')",
	"timeMax":                 "Upper bound (exclusive) for an event's start time, RFC3339 timestamp",
	"timeMin":                 "Lower bound (exclusive) for an event's end time, RFC3339 timestamp",
	"timeZone":                "Time zone used in the response",
	"updatedMin":              "Lower bound for an event's last modification time, RFC3339 timestamp",
	"originalStart":           "The original start time of the instance in the result",
	"conferenceDataVersion":   "Version number of conference data supported by the API client",
	"supportsAttachments":     "Whether the API client supports event attachments ('true' or 'false')",
}

func required(names ...string) []Param {
	return params(true, names...)
}

func optional(names ...string) []Param {
	return params(false, names...)
}

func params(req bool, names ...string) []Param {
	out := make([]Param, 0, len(names))
	for _, n := range names {
		out = append(out, Param{Name: n, Description: paramDescriptions[n], Required: req})
	}
	return out
}

func join(groups ...[]Param) []Param {
	var out []Param
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var (
	aclListParams          = optional("maxResults", "pageToken", "showDeleted", "syncToken")
	calendarListListParams = optional("maxResults", "minAccessRole", "pageToken", "showDeleted", "showHidden", "syncToken")
	eventListParams        = optional("alwaysIncludeEmail", "eventTypes", "iCalUID", "maxAttendees", "maxResults",
		"orderBy", "pageToken", "privateExtendedProperty", "q", "sharedExtendedProperty", "showDeleted",
		"showHiddenInvitations", "singleEvents", "syncToken", "timeMax", "timeMin", "timeZone", "updatedMin")
	eventWriteParams = optional("alwaysIncludeEmail", "conferenceDataVersion", "maxAttendees",
		"sendNotifications", "sendUpdates", "supportsAttachments")
	settingsListParams = optional("maxResults", "pageToken", "syncToken")
)

var endpoints = []Endpoint{
	// Access control rules
	{
		Name: "list-acl", Description: "List access control rules",
		Method: http.MethodGet, Path: "/calendars/{calendarId}/acl",
		Resource: ResourceACL, Operation: instrumentation.OperationList,
		Params: join(required("calendarId"), aclListParams),
	},
	{
		Name: "insert-acl", Description: "Create access control rule",
		Method: http.MethodPost, Path: "/calendars/{calendarId}/acl",
		Resource: ResourceACL, Operation: instrumentation.OperationInsert,
		Params: join(required("calendarId"), optional("sendNotifications")),
	},
	{
		Name: "get-acl", Description: "Get access control rule",
		Method: http.MethodGet, Path: "/calendars/{calendarId}/acl/{ruleId}",
		Resource: ResourceACL, Operation: instrumentation.OperationGet,
		Params: required("calendarId", "ruleId"),
	},
	{
		Name: "update-acl", Description: "Update access control rule",
		Method: http.MethodPut, Path: "/calendars/{calendarId}/acl/{ruleId}",
		Resource: ResourceACL, Operation: instrumentation.OperationUpdate,
		Params: join(required("calendarId", "ruleId"), optional("sendNotifications")),
	},
	{
		Name: "patch-acl", Description: "Patch access control rule",
		Method: http.MethodPatch, Path: "/calendars/{calendarId}/acl/{ruleId}",
		Resource: ResourceACL, Operation: instrumentation.OperationPatch,
		Params: join(required("calendarId", "ruleId"), optional("sendNotifications")),
	},
	{
		Name: "delete-acl", Description: "Delete access control rule",
		Method: http.MethodDelete, Path: "/calendars/{calendarId}/acl/{ruleId}",
		Resource: ResourceACL, Operation: instrumentation.OperationDelete,
		Params: required("calendarId", "ruleId"),
	},
	{
		Name: "watch-acl", Description: "Watch for changes to ACL resources",
		Method: http.MethodPost, Path: "/calendars/{calendarId}/acl/watch",
		Resource: ResourceACL, Operation: instrumentation.OperationWatch,
		Params: join(required("calendarId"), aclListParams),
	},

	// Calendar list of the authenticated user
	{
		Name: "list-calendar-list", Description: "List calendars",
		Method: http.MethodGet, Path: "/users/me/calendarList",
		Resource: ResourceCalendarList, Operation: instrumentation.OperationList,
		Params: calendarListListParams,
	},
	{
		Name: "insert-calendar-list", Description: "Insert calendar into calendar list",
		Method: http.MethodPost, Path: "/users/me/calendarList",
		Resource: ResourceCalendarList, Operation: instrumentation.OperationInsert,
		Params: optional("colorRgbFormat"),
	},
	{
		Name: "get-calendar-list", Description: "Get calendar from calendar list",
		Method: http.MethodGet, Path: "/users/me/calendarList/{calendarId}",
		Resource: ResourceCalendarList, Operation: instrumentation.OperationGet,
		Params: required("calendarId"),
	},
	{
		Name: "update-calendar-list", Description: "Update calendar in calendar list",
		Method: http.MethodPut, Path: "/users/me/calendarList/{calendarId}",
		Resource: ResourceCalendarList, Operation: instrumentation.OperationUpdate,
		Params: join(required("calendarId"), optional("colorRgbFormat")),
	},
	{
		Name: "patch-calendar-list", Description: "Patch calendar in calendar list",
		Method: http.MethodPatch, Path: "/users/me/calendarList/{calendarId}",
		Resource: ResourceCalendarList, Operation: instrumentation.OperationPatch,
		Params: join(required("calendarId"), optional("colorRgbFormat")),
	},
	{
		Name: "delete-calendar-list", Description: "Remove calendar from calendar list",
		Method: http.MethodDelete, Path: "/users/me/calendarList/{calendarId}",
		Resource: ResourceCalendarList, Operation: instrumentation.OperationDelete,
		Params: required("calendarId"),
	},
	{
		Name: "watch-calendar-list", Description: "Watch for changes to CalendarList resources",
		Method: http.MethodPost, Path: "/users/me/calendarList/watch",
		Resource: ResourceCalendarList, Operation: instrumentation.OperationWatch,
		Params: calendarListListParams,
	},

	// Calendars
	{
		Name: "insert-calendar", Description: "Create calendar",
		Method: http.MethodPost, Path: "/calendars",
		Resource: ResourceCalendars, Operation: instrumentation.OperationInsert,
	},
	{
		Name: "get-calendar", Description: "Get calendar",
		Method: http.MethodGet, Path: "/calendars/{calendarId}",
		Resource: ResourceCalendars, Operation: instrumentation.OperationGet,
		Params: required("calendarId"),
	},
	{
		Name: "update-calendar", Description: "Update calendar",
		Method: http.MethodPut, Path: "/calendars/{calendarId}",
		Resource: ResourceCalendars, Operation: instrumentation.OperationUpdate,
		Params: required("calendarId"),
	},
	{
		Name: "patch-calendar", Description: "Patch calendar",
		Method: http.MethodPatch, Path: "/calendars/{calendarId}",
		Resource: ResourceCalendars, Operation: instrumentation.OperationPatch,
		Params: required("calendarId"),
	},
	{
		Name: "delete-calendar", Description: "Delete calendar",
		Method: http.MethodDelete, Path: "/calendars/{calendarId}",
		Resource: ResourceCalendars, Operation: instrumentation.OperationDelete,
		Params: required("calendarId"),
	},
	{
		Name: "clear-calendar", Description: "Clear primary calendar",
		Method: http.MethodPost, Path: "/calendars/{calendarId}/clear",
		Resource: ResourceCalendars, Operation: instrumentation.OperationClear,
		Params: required("calendarId"),
	},

	// Events
	{
		Name: "list-events", Description: "List events",
		Method: http.MethodGet, Path: "/calendars/{calendarId}/events",
		Resource: ResourceEvents, Operation: instrumentation.OperationList,
		Params: join(required("calendarId"), eventListParams),
	},
	{
		Name: "insert-event", Description: "Create event",
		Method: http.MethodPost, Path: "/calendars/{calendarId}/events",
		Resource: ResourceEvents, Operation: instrumentation.OperationInsert,
		Params: join(required("calendarId"),
			optional("conferenceDataVersion", "maxAttendees", "sendNotifications", "sendUpdates", "supportsAttachments")),
	},
	{
		Name: "get-event", Description: "Get event",
		Method: http.MethodGet, Path: "/calendars/{calendarId}/events/{eventId}",
		Resource: ResourceEvents, Operation: instrumentation.OperationGet,
		Params: join(required("calendarId", "eventId"), optional("alwaysIncludeEmail", "maxAttendees", "timeZone")),
	},
	{
		Name: "update-event", Description: "Update event",
		Method: http.MethodPut, Path: "/calendars/{calendarId}/events/{eventId}",
		Resource: ResourceEvents, Operation: instrumentation.OperationUpdate,
		Params: join(required("calendarId", "eventId"), eventWriteParams),
	},
	{
		Name: "patch-event", Description: "Patch event",
		Method: http.MethodPatch, Path: "/calendars/{calendarId}/events/{eventId}",
		Resource: ResourceEvents, Operation: instrumentation.OperationPatch,
		Params: join(required("calendarId", "eventId"), eventWriteParams),
	},
	{
		Name: "delete-event", Description: "Delete event",
		Method: http.MethodDelete, Path: "/calendars/{calendarId}/events/{eventId}",
		Resource: ResourceEvents, Operation: instrumentation.OperationDelete,
		Params: join(required("calendarId", "eventId"), optional("sendNotifications", "sendUpdates")),
	},
	{
		Name: "instances-event", Description: "Get event instances",
		Method: http.MethodGet, Path: "/calendars/{calendarId}/events/{eventId}/instances",
		Resource: ResourceEvents, Operation: instrumentation.OperationInstances,
		Params: join(required("calendarId", "eventId"),
			optional("alwaysIncludeEmail", "maxAttendees", "maxResults", "originalStart", "pageToken",
				"showDeleted", "timeMax", "timeMin", "timeZone")),
	},
	{
		Name: "move-event", Description: "Move event",
		Method: http.MethodPost, Path: "/calendars/{calendarId}/events/{eventId}/move",
		Resource: ResourceEvents, Operation: instrumentation.OperationMove,
		Params: join(required("calendarId", "eventId", "destination"), optional("sendNotifications", "sendUpdates")),
	},
	{
		Name: "import-event", Description: "Import event",
		Method: http.MethodPost, Path: "/calendars/{calendarId}/events/import",
		Resource: ResourceEvents, Operation: instrumentation.OperationImport,
		Params: join(required("calendarId"), optional("conferenceDataVersion", "supportsAttachments")),
	},
	{
		Name: "quick-add-event", Description: "Quick add event",
		Method: http.MethodPost, Path: "/calendars/{calendarId}/events/quickAdd",
		Resource: ResourceEvents, Operation: instrumentation.OperationQuickAdd,
		Params: join(required("calendarId", "text"), optional("sendNotifications", "sendUpdates")),
	},
	{
		Name: "watch-events", Description: "Watch for changes to Events resources",
		Method: http.MethodPost, Path: "/calendars/{calendarId}/events/watch",
		Resource: ResourceEvents, Operation: instrumentation.OperationWatch,
		Params: join(required("calendarId"), eventListParams),
	},

	// Free/busy, colors, settings and channels
	{
		Name: "query-freebusy", Description: "Query free/busy information",
		Method: http.MethodPost, Path: "/freeBusy",
		Resource: ResourceFreeBusy, Operation: instrumentation.OperationQuery,
	},
	{
		Name: "get-colors", Description: "Get color definitions",
		Method: http.MethodGet, Path: "/colors",
		Resource: ResourceColors, Operation: instrumentation.OperationGet,
	},
	{
		Name: "list-settings", Description: "List settings",
		Method: http.MethodGet, Path: "/users/me/settings",
		Resource: ResourceSettings, Operation: instrumentation.OperationList,
		Params: settingsListParams,
	},
	{
		Name: "get-setting", Description: "Get setting",
		Method: http.MethodGet, Path: "/users/me/settings/{setting}",
		Resource: ResourceSettings, Operation: instrumentation.OperationGet,
		Params: required("setting"),
	},
	{
		Name: "watch-settings", Description: "Watch for changes to Settings resources",
		Method: http.MethodPost, Path: "/users/me/settings/watch",
		Resource: ResourceSettings, Operation: instrumentation.OperationWatch,
		Params: settingsListParams,
	},
	{
		Name: "stop-channel", Description: "Stop watching resources",
		Method: http.MethodPost, Path: "/channels/stop",
		Resource: ResourceChannels, Operation: instrumentation.OperationStop,
	},
}
