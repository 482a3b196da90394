package postgres

// schema is the DDL applied once on startup. Idempotent via IF NOT EXISTS.
//
// The money columns on orders mirror what the production backend computes
// with triggers; here the adapter recomputes them after every write that can
// move them (see recomputeTotals). Intake always reads them back instead of
// trusting client math.
const schema = `
CREATE TABLE IF NOT EXISTS operators (
    id      TEXT PRIMARY KEY,
    code    INTEGER NOT NULL UNIQUE,
    name    TEXT    NOT NULL,
    admin   BOOLEAN NOT NULL DEFAULT FALSE,
    active  BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS catalog_prices (
    size              TEXT    NOT NULL,
    quantity          INTEGER NOT NULL,
    base_price        DOUBLE PRECISION NOT NULL,
    urgent_surcharge  DOUBLE PRECISION NOT NULL DEFAULT 0,
    premium_surcharge DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (size, quantity)
);

CREATE TABLE IF NOT EXISTS orders (
    id             TEXT PRIMARY KEY,
    client_name    TEXT NOT NULL,
    client_phone   TEXT,
    delivery_date  TEXT NOT NULL,
    delivery_time  TEXT NOT NULL,
    urgent         BOOLEAN NOT NULL DEFAULT FALSE,
    discount_pct   DOUBLE PRECISION NOT NULL DEFAULT 0,
    needs_revision BOOLEAN NOT NULL DEFAULT FALSE,
    created_by     TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),

    -- Server-computed money fields. Written only by recomputeTotals.
    total_gross    DOUBLE PRECISION NOT NULL DEFAULT 0,
    total_final    DOUBLE PRECISION NOT NULL DEFAULT 0,
    deposit        DOUBLE PRECISION NOT NULL DEFAULT 0,
    settlement     DOUBLE PRECISION NOT NULL DEFAULT 0,
    total_paid     DOUBLE PRECISION NOT NULL DEFAULT 0,
    balance_due    DOUBLE PRECISION NOT NULL DEFAULT 0,
    paid           BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC);

CREATE TABLE IF NOT EXISTS order_items (
    id         BIGSERIAL PRIMARY KEY,
    order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    size       TEXT NOT NULL,
    finish     TEXT NOT NULL DEFAULT '',
    quantity   INTEGER NOT NULL DEFAULT 1,
    paper      TEXT NOT NULL DEFAULT '',
    urgent     BOOLEAN NOT NULL DEFAULT FALSE,
    clothing   TEXT,
    specs      TEXT,
    unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
    subtotal   DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_by TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);

CREATE TABLE IF NOT EXISTS payments (
    id          TEXT PRIMARY KEY,
    order_id    TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    amount      DOUBLE PRECISION NOT NULL,
    kind        TEXT NOT NULL,
    note        TEXT,
    operator_id TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id);
`
