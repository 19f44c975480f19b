package journal

const schemaSQL = `
CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	entry_date TEXT NOT NULL UNIQUE,
	ai_insight TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS entry_fields (
	entry_id TEXT NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
	field_key TEXT NOT NULL,
	value TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (entry_id, field_key)
);

CREATE TABLE IF NOT EXISTS entry_images (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	entry_id TEXT NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
	filename TEXT NOT NULL,
	rel_path TEXT NOT NULL,
	caption TEXT NOT NULL DEFAULT '',
	section TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entry_images_entry ON entry_images(entry_id, position);

CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	prompt TEXT NOT NULL,
	result TEXT NOT NULL,
	range_from TEXT,
	range_to TEXT,
	created_at TIMESTAMP NOT NULL
);
`
