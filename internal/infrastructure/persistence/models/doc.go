// Package models contains the GORM persistence models and their mappers.
//
// Domain aggregates carry no ORM concerns. Each model here owns the table
// layout for one aggregate and converts with FromDomain / ToDomain:
//
//   - base.go: BaseModel and AgencyAggregateModel
//   - identity.go: users, login records, password reset tokens
//   - property.go: properties, listings, inspections
//   - leasing.go: tenant applications, lease agreements
//   - task.go: tasks
//   - messaging.go: conversations, participants, messages, read receipts
package models
