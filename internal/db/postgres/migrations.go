package postgres

// SQL-миграции встроены в код для упрощения деплоя.

// Migrations — схема сервиса по порядку применения.
var Migrations = []Migration{
	{1, migration001Subjects},
	{2, migration002CompletionEvents},
}

var migration001Subjects = `
CREATE TABLE IF NOT EXISTS subjects (
    id UUID PRIMARY KEY,
    display_name VARCHAR(255) NOT NULL,
    parent_chat_id BIGINT,
    reminder_sent_on DATE,
    milestone_notified_on DATE,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_subjects_parent_chat ON subjects(parent_chat_id) WHERE parent_chat_id IS NOT NULL;
`

// completion_events заполняет мобильное приложение, сервис только читает.
var migration002CompletionEvents = `
CREATE TABLE IF NOT EXISTS completion_events (
    id BIGSERIAL PRIMARY KEY,
    subject_id UUID NOT NULL REFERENCES subjects(id),
    routine_id UUID,
    completed_on DATE,
    completed_at TIMESTAMPTZ,
    segment VARCHAR(16),
    xp_earned INTEGER,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_completion_events_subject_on ON completion_events(subject_id, completed_on);
CREATE INDEX IF NOT EXISTS idx_completion_events_subject_at ON completion_events(subject_id, completed_at);
`
