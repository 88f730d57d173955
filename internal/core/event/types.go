package event

// Engine-level event types.

// SceneLoaded is emitted after a scene's OnLoad succeeded.
type SceneLoaded struct {
	Name     string
	Previous string
}

// EntitiesDestroyed is emitted by the cleanup pass when it flushed at least one entity.
type EntitiesDestroyed struct {
	Count int
	Frame uint64
}
