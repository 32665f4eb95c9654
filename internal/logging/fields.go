package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldDynastyID is the standardized key for dynasty identifiers.
	FieldDynastyID = "dynasty_id"
	// FieldSeasonID is the standardized key for season identifiers.
	FieldSeasonID = "season_id"
	// FieldSyncState is the standardized key for orchestrator state names.
	FieldSyncState = "sync_state"
	// FieldCorrelationID is the standardized key for sync run identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldSavePath is the standardized key for the save file being synced.
	FieldSavePath = "save_path"
	// FieldEventType names the kind of event for log filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries the next step a user can take.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldErrorKind carries the failure classification reported by the sidecar.
	FieldErrorKind = "error_kind"
)
