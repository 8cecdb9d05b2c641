package lifecycle

// Operation names, used in error context and the message table.
const (
	opCreate          = "create"
	opUpdate          = "update"
	opReview          = "review"
	opPublish         = "publish"
	opUnlistedPublish = "unlisted-publish"
	opReject          = "reject"
	opRetire          = "retire"
	opCopy            = "copy"
	opAssignBadge     = "assign-badge"
	opRevokeBadge     = "revoke-badge"
	opSearch          = "search"
	opGet             = "get"
	opMyContent       = "my-content"
	opFlag            = "flag"
	opAcceptFlag      = "accept-flag"
	opRejectFlag      = "reject-flag"
	opFramework       = "framework"
	opVersionRead     = "version-read"
	opLockValidate    = "lock-validate"
)

// opMessage is the fallback error code/message pair used when the provider
// reports a failure without its own details, plus the code/message for
// locally rejected input.
type opMessage struct {
	MissingCode    string
	MissingMessage string
	FailedCode     string
	FailedMessage  string
}

var opMessages = map[string]opMessage{
	opCreate: {
		MissingCode:    "ERR_CONTENT_INVALID_CONTENT",
		MissingMessage: "Required fields for create content are missing",
		FailedCode:     "ERR_CONTENT_CREATE_FAILED",
		FailedMessage:  "Create content failed",
	},
	opUpdate: {
		MissingCode:    "ERR_CONTENT_INVALID_UPDATE_REQUEST",
		MissingMessage: "Required fields for update content are missing",
		FailedCode:     "ERR_CONTENT_UPDATE_FAILED",
		FailedMessage:  "Update content failed",
	},
	opReview: {
		FailedCode:    "ERR_CONTENT_REVIEW_FAILED",
		FailedMessage: "Review content failed",
	},
	opPublish: {
		MissingCode:    "ERR_CONTENT_INVALID_PUBLISH_REQUEST",
		MissingMessage: "Required field lastPublishedBy is missing",
		FailedCode:     "ERR_CONTENT_PUBLISH_FAILED",
		FailedMessage:  "Publish content failed",
	},
	opUnlistedPublish: {
		MissingCode:    "ERR_CONTENT_INVALID_UNLISTED_PUBLISH_REQUEST",
		MissingMessage: "Required field lastPublishedBy is missing",
		FailedCode:     "ERR_CONTENT_UNLISTED_PUBLISH_FAILED",
		FailedMessage:  "Unlisted publish content failed",
	},
	opReject: {
		MissingCode:    "ERR_CONTENT_INVALID_REJECT_REQUEST",
		MissingMessage: "Required content id is missing",
		FailedCode:     "ERR_CONTENT_REJECT_FAILED",
		FailedMessage:  "Reject content failed",
	},
	opRetire: {
		MissingCode:    "ERR_CONTENT_INVALID_RETIRE_REQUEST",
		MissingMessage: "Required field contentIds is missing",
		FailedCode:     "ERR_CONTENT_RETIRE_FAILED",
		FailedMessage:  "Retire content failed",
	},
	opCopy: {
		MissingCode:    "ERR_CONTENT_INVALID_COPY_REQUEST",
		MissingMessage: "Required content id is missing",
		FailedCode:     "ERR_CONTENT_COPY_FAILED",
		FailedMessage:  "Copy content failed",
	},
	opAssignBadge: {
		MissingCode:    "ERR_CONTENT_INVALID_BADGE_REQUEST",
		MissingMessage: "Required badge assertion is missing",
		FailedCode:     "ERR_CONTENT_ASSIGN_BADGE_FAILED",
		FailedMessage:  "Assign badge failed",
	},
	opRevokeBadge: {
		MissingCode:    "ERR_CONTENT_INVALID_BADGE_REQUEST",
		MissingMessage: "Required badge assertion is missing",
		FailedCode:     "ERR_CONTENT_REVOKE_BADGE_FAILED",
		FailedMessage:  "Revoke badge failed",
	},
	opSearch: {
		MissingCode:    "ERR_CONTENT_INVALID_SEARCH_REQUEST",
		MissingMessage: "Required field filters is missing",
		FailedCode:     "ERR_CONTENT_SEARCH_FAILED",
		FailedMessage:  "Search content failed",
	},
	opGet: {
		MissingCode:    "ERR_CONTENT_INVALID_GET_REQUEST",
		MissingMessage: "Required content id is missing",
		FailedCode:     "ERR_CONTENT_GET_FAILED",
		FailedMessage:  "Get content failed",
	},
	opMyContent: {
		FailedCode:    "ERR_CONTENT_GET_MY_FAILED",
		FailedMessage: "Get user content failed",
	},
	opFlag: {
		MissingCode:    "ERR_CONTENT_INVALID_FLAG_REQUEST",
		MissingMessage: "Required content id or request is missing",
		FailedCode:     "ERR_CONTENT_FLAG_FAILED",
		FailedMessage:  "Flag content failed",
	},
	opAcceptFlag: {
		MissingCode:    "ERR_CONTENT_INVALID_ACCEPT_FLAG_REQUEST",
		MissingMessage: "Required content id or request is missing",
		FailedCode:     "ERR_CONTENT_ACCEPT_FLAG_FAILED",
		FailedMessage:  "Accept flag failed",
	},
	opRejectFlag: {
		MissingCode:    "ERR_CONTENT_INVALID_REJECT_FLAG_REQUEST",
		MissingMessage: "Required content id or request is missing",
		FailedCode:     "ERR_CONTENT_REJECT_FLAG_FAILED",
		FailedMessage:  "Reject flag failed",
	},
	opFramework: {
		FailedCode:    "ERR_FRAMEWORK_GET_FAILED",
		FailedMessage: "Fetching framework data failed",
	},
	opVersionRead: {
		FailedCode:    "ERR_CONTENT_VERSION_READ_FAILED",
		FailedMessage: "Fetching latest version key failed",
	},
}

var genericMessage = opMessage{
	MissingCode:    "ERR_INVALID_REQUEST",
	MissingMessage: "Required params are missing",
	FailedCode:     "ERR_INTERNAL_SERVER_ERROR",
	FailedMessage:  "Provider request failed",
}

func messageFor(op string) opMessage {
	if m, ok := opMessages[op]; ok {
		return m
	}
	return genericMessage
}
