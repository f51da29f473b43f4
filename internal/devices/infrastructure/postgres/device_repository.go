package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	devices "wisewatt-cloud/internal/devices/domain"
)

const defaultDevicesTable = "user_devices"

// DBTX is the subset of database/sql used by repositories, satisfied by
// *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DeviceRepository is a Postgres implementation for devices.
type DeviceRepository struct {
	db    DBTX
	table string
}

// NewDeviceRepository constructs a repository.
func NewDeviceRepository(db DBTX, opts ...DeviceOption) *DeviceRepository {
	repo := &DeviceRepository{db: db, table: defaultDevicesTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// DeviceOption configures the repository.
type DeviceOption func(*DeviceRepository)

// WithDeviceTable overrides the default table name.
func WithDeviceTable(table string) DeviceOption {
	return func(repo *DeviceRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// Get loads a device by serial.
func (r *DeviceRepository) Get(ctx context.Context, serial string) (*devices.Device, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("device repo: nil db")
	}
	if serial == "" {
		return nil, devices.ErrEmptySerial
	}

	query := fmt.Sprintf(`
SELECT serial, user_guid, kind, name, manually_operated, is_on, consumption_rate, on_time, off_time, target_temperature
FROM %s
WHERE serial = $1
LIMIT 1`, r.table)

	device, err := scanDevice(r.db.QueryRowContext(ctx, query, serial))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return device, nil
}

// ListForUser loads all devices owned by a user.
func (r *DeviceRepository) ListForUser(ctx context.Context, userGUID string) ([]devices.Device, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("device repo: nil db")
	}
	if userGUID == "" {
		return nil, devices.ErrEmptyUserGUID
	}

	query := fmt.Sprintf(`
SELECT serial, user_guid, kind, name, manually_operated, is_on, consumption_rate, on_time, off_time, target_temperature
FROM %s
WHERE user_guid = $1
ORDER BY serial ASC`, r.table)

	rows, err := r.db.QueryContext(ctx, query, userGUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []devices.Device
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *device)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save inserts a device.
func (r *DeviceRepository) Save(ctx context.Context, device *devices.Device) error {
	if r == nil || r.db == nil {
		return errors.New("device repo: nil db")
	}
	if device == nil {
		return errors.New("device repo: nil device")
	}
	if err := device.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (serial, user_guid, kind, name, manually_operated, is_on, consumption_rate, on_time, off_time, target_temperature)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		device.Serial,
		device.UserGUID,
		string(device.Kind),
		device.Name,
		device.Schedule.ManuallyOperated,
		device.IsOn,
		device.ConsumptionRate,
		device.Schedule.On.String(),
		device.Schedule.Off.String(),
		targetTemperature(device),
	)
	return err
}

// Update overwrites a device row.
func (r *DeviceRepository) Update(ctx context.Context, device *devices.Device) error {
	if r == nil || r.db == nil {
		return errors.New("device repo: nil db")
	}
	if device == nil {
		return errors.New("device repo: nil device")
	}
	if err := device.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
UPDATE %s
SET name = $2, manually_operated = $3, is_on = $4, consumption_rate = $5, on_time = $6, off_time = $7, target_temperature = $8
WHERE serial = $1`, r.table)

	result, err := r.db.ExecContext(ctx, query,
		device.Serial,
		device.Name,
		device.Schedule.ManuallyOperated,
		device.IsOn,
		device.ConsumptionRate,
		device.Schedule.On.String(),
		device.Schedule.Off.String(),
		targetTemperature(device),
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return devices.ErrDeviceNotFound
	}
	return nil
}

// Delete removes a device by serial.
func (r *DeviceRepository) Delete(ctx context.Context, serial string) error {
	if r == nil || r.db == nil {
		return errors.New("device repo: nil db")
	}
	if serial == "" {
		return devices.ErrEmptySerial
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE serial = $1`, r.table)
	_, err := r.db.ExecContext(ctx, query, serial)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (*devices.Device, error) {
	var device devices.Device
	var kind string
	var onTime, offTime string
	var temperature sql.NullInt64
	if err := row.Scan(
		&device.Serial,
		&device.UserGUID,
		&kind,
		&device.Name,
		&device.Schedule.ManuallyOperated,
		&device.IsOn,
		&device.ConsumptionRate,
		&onTime,
		&offTime,
		&temperature,
	); err != nil {
		return nil, err
	}

	parsedKind, err := devices.ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("device repo: row %s: %w", device.Serial, err)
	}
	device.Kind = parsedKind

	if device.Schedule.On, err = devices.ParseTimeOfDay(onTime); err != nil {
		return nil, err
	}
	if device.Schedule.Off, err = devices.ParseTimeOfDay(offTime); err != nil {
		return nil, err
	}
	if temperature.Valid {
		device.HeatPump = &devices.HeatPumpSettings{TargetTemperature: int(temperature.Int64)}
	}
	return &device, nil
}

func targetTemperature(device *devices.Device) sql.NullInt64 {
	if device.HeatPump == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(device.HeatPump.TargetTemperature), Valid: true}
}
