// Package testkit builds throwaway sqlite and redis backends for package tests.
package testkit

//nolint:revive
import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"
	"travelnest/infras/otel/mocks"
	"travelnest/infras/postgres"
	"travelnest/shared/cache"
	"travelnest/shared/password"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	goRedis "github.com/redis/go-redis/v9"
)

// schema mirrors migrations/postgres in the sqlite dialect.
const schema = `
CREATE TABLE users (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name  TEXT NOT NULL,
    last_name   TEXT NOT NULL,
    email       TEXT NOT NULL UNIQUE,
    mobile      TEXT NOT NULL DEFAULT '',
    address     TEXT NOT NULL DEFAULT '',
    password    TEXT NOT NULL,
    role        TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
    created_at  TIMESTAMP NOT NULL,
    modified_at TIMESTAMP NOT NULL,
    created_by  TEXT NOT NULL DEFAULT '',
    modified_by TEXT NOT NULL DEFAULT ''
);

CREATE TABLE destinations (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    country     TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMP NOT NULL,
    modified_at TIMESTAMP NOT NULL,
    created_by  TEXT NOT NULL DEFAULT '',
    modified_by TEXT NOT NULL DEFAULT ''
);

CREATE TABLE hotels (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    destination_id INTEGER NOT NULL REFERENCES destinations (id) ON DELETE CASCADE,
    name           TEXT NOT NULL,
    base_price     REAL NOT NULL CHECK (base_price >= 0),
    rating         REAL NOT NULL DEFAULT 0 CHECK (rating BETWEEN 0 AND 5),
    image          TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMP NOT NULL,
    modified_at    TIMESTAMP NOT NULL,
    created_by     TEXT NOT NULL DEFAULT '',
    modified_by    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE rooms (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    hotel_id    INTEGER NOT NULL REFERENCES hotels (id) ON DELETE CASCADE,
    room_type   TEXT NOT NULL CHECK (room_type IN ('single', 'double', 'suite')),
    price       REAL NOT NULL CHECK (price >= 0),
    available   INTEGER NOT NULL DEFAULT 0 CHECK (available >= 0),
    created_at  TIMESTAMP NOT NULL,
    modified_at TIMESTAMP NOT NULL,
    created_by  TEXT NOT NULL DEFAULT '',
    modified_by TEXT NOT NULL DEFAULT ''
);

CREATE TABLE bookings (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id     INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    room_id     INTEGER NOT NULL REFERENCES rooms (id) ON DELETE CASCADE,
    check_in    DATE NOT NULL,
    check_out   DATE NOT NULL,
    guests      INTEGER NOT NULL CHECK (guests >= 1),
    status      TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'confirmed', 'cancelled')),
    created_at  TIMESTAMP NOT NULL,
    modified_at TIMESTAMP NOT NULL,
    created_by  TEXT NOT NULL DEFAULT '',
    modified_by TEXT NOT NULL DEFAULT '',
    CHECK (check_out > check_in)
);

CREATE TABLE payments (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    booking_id     INTEGER NOT NULL UNIQUE REFERENCES bookings (id) ON DELETE CASCADE,
    amount         REAL NOT NULL DEFAULT 0,
    method         TEXT NOT NULL DEFAULT 'N/A',
    payment_status TEXT NOT NULL DEFAULT 'no_payment' CHECK (payment_status IN ('no_payment', 'paid_online', 'will_pay')),
    created_at     TIMESTAMP NOT NULL,
    modified_at    TIMESTAMP NOT NULL,
    created_by     TEXT NOT NULL DEFAULT '',
    modified_by    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE reviews (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id     INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    hotel_id    INTEGER NOT NULL REFERENCES hotels (id) ON DELETE CASCADE,
    rating      INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
    comment     TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL,
    modified_at TIMESTAMP NOT NULL,
    created_by  TEXT NOT NULL DEFAULT '',
    modified_by TEXT NOT NULL DEFAULT ''
);

CREATE TABLE discounts (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    min_price        REAL NOT NULL,
    max_price        REAL NOT NULL,
    discount_percent REAL NOT NULL,
    created_at       TIMESTAMP NOT NULL,
    modified_at      TIMESTAMP NOT NULL,
    created_by       TEXT NOT NULL DEFAULT '',
    modified_by      TEXT NOT NULL DEFAULT ''
);

CREATE VIEW v_hotel_details AS
SELECT h.id AS hotel_id, h.name AS hotel_name, d.name AS destination, d.country AS country,
       h.base_price AS base_price, h.rating AS rating
FROM hotels h
INNER JOIN destinations d ON d.id = h.destination_id;
`

const dsnOptions = "_txlock=immediate&_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"

// NewDB opens a fresh sqlite file database with the application schema and
// returns it as both the read and the write connection.
func NewDB(t testing.TB) *postgres.Connection {
	t.Helper()

	path := filepath.Join(t.TempDir(), "travelnest.db")

	db, err := sqlx.Connect("sqlite3", fmt.Sprintf("file:%s?%s", path, dsnOptions))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if _, err = db.Exec(schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return &postgres.Connection{Read: db, Write: db}
}

// NewCache starts an in-memory redis server and wraps it in the application cache.
func NewCache(t testing.TB) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := goRedis.NewClient(&goRedis.Options{Addr: server.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel()), server
}

// Fixture inserts rows directly so tests can pin identifiers.
type Fixture struct {
	t  testing.TB
	db *sqlx.DB
}

func NewFixture(t testing.TB, conn *postgres.Connection) *Fixture {
	t.Helper()

	return &Fixture{t: t, db: conn.Write}
}

func (f *Fixture) Exec(query string, args ...any) {
	f.t.Helper()

	if _, err := f.db.ExecContext(context.Background(), query, args...); err != nil {
		f.t.Fatalf("fixture %q: %v", query, err)
	}
}

const fixtureActor = "fixture"

// User inserts a user whose password is the bcrypt hash of plain.
func (f *Fixture) User(id int64, email, role, plain string) {
	f.t.Helper()

	hash, err := password.Hash(plain)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	f.Exec(`INSERT INTO users (id, first_name, last_name, email, mobile, address, password, role, created_at, modified_at, created_by, modified_by)
		VALUES (?, 'Test', 'User', ?, '+15550100', 'Main St', ?, ?, ?, ?, ?, ?)`,
		id, email, hash, role, now, now, fixtureActor, fixtureActor)
}

func (f *Fixture) Destination(id int64, name, country string) {
	f.t.Helper()

	now := time.Now().UTC()
	f.Exec(`INSERT INTO destinations (id, name, country, description, created_at, modified_at, created_by, modified_by)
		VALUES (?, ?, ?, 'description', ?, ?, ?, ?)`,
		id, name, country, now, now, fixtureActor, fixtureActor)
}

func (f *Fixture) Hotel(id, destinationID int64, name string, basePrice, rating float64) {
	f.t.Helper()

	now := time.Now().UTC()
	f.Exec(`INSERT INTO hotels (id, destination_id, name, base_price, rating, image, created_at, modified_at, created_by, modified_by)
		VALUES (?, ?, ?, ?, ?, '', ?, ?, ?, ?)`,
		id, destinationID, name, basePrice, rating, now, now, fixtureActor, fixtureActor)
}

func (f *Fixture) Room(id, hotelID int64, roomType string, price float64, available int) {
	f.t.Helper()

	now := time.Now().UTC()
	f.Exec(`INSERT INTO rooms (id, hotel_id, room_type, price, available, created_at, modified_at, created_by, modified_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, hotelID, roomType, price, available, now, now, fixtureActor, fixtureActor)
}

func (f *Fixture) Booking(id, userID, roomID int64, status string) {
	f.t.Helper()

	now := time.Now().UTC()
	checkIn := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	f.Exec(`INSERT INTO bookings (id, user_id, room_id, check_in, check_out, guests, status, created_at, modified_at, created_by, modified_by)
		VALUES (?, ?, ?, ?, ?, 2, ?, ?, ?, ?, ?)`,
		id, userID, roomID, checkIn, checkIn.AddDate(0, 0, 3), status, now, now, fixtureActor, fixtureActor)
}

func (f *Fixture) Payment(bookingID int64, amount float64, status string) {
	f.t.Helper()

	now := time.Now().UTC()
	f.Exec(`INSERT INTO payments (booking_id, amount, method, payment_status, created_at, modified_at, created_by, modified_by)
		VALUES (?, ?, 'card', ?, ?, ?, ?, ?)`,
		bookingID, amount, status, now, now, fixtureActor, fixtureActor)
}

func (f *Fixture) Review(userID, hotelID int64, rating int, comment string) {
	f.t.Helper()

	now := time.Now().UTC()
	f.Exec(`INSERT INTO reviews (user_id, hotel_id, rating, comment, created_at, modified_at, created_by, modified_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, hotelID, rating, comment, now, now, fixtureActor, fixtureActor)
}

func (f *Fixture) Discount(minPrice, maxPrice, percent float64) {
	f.t.Helper()

	now := time.Now().UTC()
	f.Exec(`INSERT INTO discounts (min_price, max_price, discount_percent, created_at, modified_at, created_by, modified_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		minPrice, maxPrice, percent, now, now, fixtureActor, fixtureActor)
}

// Int64 runs a scalar query, for asserting on table state.
func (f *Fixture) Int64(query string, args ...any) int64 {
	f.t.Helper()

	var value int64
	if err := f.db.GetContext(context.Background(), &value, query, args...); err != nil {
		f.t.Fatalf("fixture query %q: %v", query, err)
	}

	return value
}
