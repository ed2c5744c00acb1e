// Package rpc exposes the application services as named remote methods.
// Every method is called with POST /rpc/{method} and a JSON params object,
// and answers with the same envelope as the REST API.
package rpc

// Method names a remote method
type Method string

// Authentication
const (
	MethodAuthRegister             Method = "auth.register"
	MethodAuthLogin                Method = "auth.login"
	MethodAuthRefresh              Method = "auth.refresh"
	MethodAuthLogout               Method = "auth.logout"
	MethodAuthRequestPasswordReset Method = "auth.requestPasswordReset"
	MethodAuthResetPassword        Method = "auth.resetPassword"
)

// Users
const (
	MethodUsersGet          Method = "users.get"
	MethodUsersList         Method = "users.list"
	MethodUsersLoginHistory Method = "users.loginHistory"
)

// Properties and listings
const (
	MethodPropertiesCreate  Method = "properties.create"
	MethodPropertiesGet     Method = "properties.get"
	MethodPropertiesList    Method = "properties.list"
	MethodPropertiesUpdate  Method = "properties.update"
	MethodPropertiesArchive Method = "properties.archive"

	MethodListingsCreate   Method = "listings.create"
	MethodListingsGet      Method = "listings.get"
	MethodListingsList     Method = "listings.list"
	MethodListingsUpdate   Method = "listings.update"
	MethodListingsPublish  Method = "listings.publish"
	MethodListingsWithdraw Method = "listings.withdraw"
)

// Inspections
const (
	MethodInspectionsSchedule Method = "inspections.schedule"
	MethodInspectionsComplete Method = "inspections.complete"
	MethodInspectionsCancel   Method = "inspections.cancel"
	MethodInspectionsList     Method = "inspections.list"
)

// Leasing
const (
	MethodApplicationsSubmit         Method = "applications.submit"
	MethodApplicationsGet            Method = "applications.get"
	MethodApplicationsList           Method = "applications.list"
	MethodApplicationsAct            Method = "applications.act"
	MethodApplicationsWithdraw       Method = "applications.withdraw"
	MethodApplicationsNotifyRejected Method = "applications.notifyRejected"

	MethodLeasesGet       Method = "leases.get"
	MethodLeasesList      Method = "leases.list"
	MethodLeasesSign      Method = "leases.sign"
	MethodLeasesTerminate Method = "leases.terminate"
)

// Tasks
const (
	MethodTasksCreate     Method = "tasks.create"
	MethodTasksList       Method = "tasks.list"
	MethodTasksUpdate     Method = "tasks.update"
	MethodTasksTransition Method = "tasks.transition"
)

// Messaging
const (
	MethodConversationsStart Method = "conversations.start"
	MethodConversationsList  Method = "conversations.list"
	MethodMessagesSend       Method = "messages.send"
	MethodMessagesList       Method = "messages.list"
	MethodMessagesMarkRead   Method = "messages.markRead"
)

// Uploads
const (
	MethodUploadsBatch Method = "uploads.batch"
)
