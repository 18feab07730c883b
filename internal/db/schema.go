package db

// Schema holds one row per document. Plans and personal records are
// addressed by (app_id, user_id, id) and stored as JSONB.
const Schema = `
CREATE TABLE IF NOT EXISTS plan
(
    app_id     VARCHAR     NOT NULL,
    user_id    VARCHAR     NOT NULL,
    id         VARCHAR     NOT NULL,
    version    INTEGER     NOT NULL DEFAULT 1,
    data       JSONB       NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (app_id, user_id, id)
);

CREATE INDEX IF NOT EXISTS ix_plan_owner_created_at ON plan (app_id, user_id, created_at);

CREATE TABLE IF NOT EXISTS personal_record
(
    app_id     VARCHAR     NOT NULL,
    user_id    VARCHAR     NOT NULL,
    id         VARCHAR     NOT NULL,
    data       JSONB       NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (app_id, user_id, id)
);

CREATE INDEX IF NOT EXISTS ix_personal_record_owner_created_at ON personal_record (app_id, user_id, created_at);
`
