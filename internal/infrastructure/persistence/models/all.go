package models

// All returns every model in dependency order, for AutoMigrate in tests
func All() []any {
	return []any{
		&UserModel{},
		&LoginRecordModel{},
		&PasswordResetTokenModel{},
		&PropertyModel{},
		&ListingModel{},
		&InspectionModel{},
		&TenantApplicationModel{},
		&LeaseAgreementModel{},
		&TaskModel{},
		&ConversationModel{},
		&ConversationParticipantModel{},
		&MessageModel{},
		&MessageReadModel{},
	}
}
