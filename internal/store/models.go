package store

import "slices"

// metaByName indexes model metadata by schema model name.
var metaByName = map[string]*modelMeta{
	projectMeta.name:        projectMeta,
	conversationMeta.name:   conversationMeta,
	messageMeta.name:        messageMeta,
	apiKeyMeta.name:         apiKeyMeta,
	voiceConfigMeta.name:    voiceConfigMeta,
	claudeConfigMeta.name:   claudeConfigMeta,
	settingsMeta.name:       settingsMeta,
	projectContextMeta.name: projectContextMeta,
	todoMeta.name:           todoMeta,
}

// schemaModels lists one value per table in dependency order.
func schemaModels() []any {
	return []any{
		&Project{},
		&Conversation{},
		&Message{},
		&APIKey{},
		&VoiceConfig{},
		&ClaudeConfig{},
		&Settings{},
		&ProjectContext{},
		&Todo{},
	}
}

// ModelNames returns the schema model names in declaration order.
func ModelNames() []string {
	return slices.Clone(modelNames)
}

var modelNames = []string{
	projectMeta.name, conversationMeta.name, messageMeta.name, apiKeyMeta.name, voiceConfigMeta.name,
	claudeConfigMeta.name, settingsMeta.name, projectContextMeta.name, todoMeta.name,
}
