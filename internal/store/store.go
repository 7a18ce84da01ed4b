// Package store is the storage boundary: all SQL lives here, and every
// consumer receives an explicitly constructed *Store rather than reaching
// for ambient global state.
package store

import (
	"database/sql"
	"fmt"
	"strconv"

	"wakeup/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// === Users ===

func (s *Store) CreateUser(username, passwordHash string) (models.User, error) {
	res, err := s.db.Exec(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, passwordHash,
	)
	if err != nil {
		return models.User{}, err
	}
	id, _ := res.LastInsertId()
	return models.User{ID: int(id), Username: username, PasswordHash: passwordHash}, nil
}

func (s *Store) GetUserByUsername(username string) (models.User, error) {
	var u models.User
	err := s.db.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// === Alarms ===

func (s *Store) ListAlarms(userID int) ([]models.Alarm, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, hour, minute, label, weekdays, mission, enabled, sound_ref, use_custom_sentence, created_at
		FROM alarms WHERE user_id = ? ORDER BY hour, minute, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlarms(rows)
}

// ListEnabledAlarms returns every enabled alarm across all users; used at
// boot to re-register timers.
func (s *Store) ListEnabledAlarms() ([]models.Alarm, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, hour, minute, label, weekdays, mission, enabled, sound_ref, use_custom_sentence, created_at
		FROM alarms WHERE enabled = 1 ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlarms(rows)
}

func scanAlarms(rows *sql.Rows) ([]models.Alarm, error) {
	alarms := []models.Alarm{}
	for rows.Next() {
		a, err := scanAlarm(rows)
		if err != nil {
			return nil, err
		}
		alarms = append(alarms, a)
	}
	return alarms, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlarm(row rowScanner) (models.Alarm, error) {
	var a models.Alarm
	var weekdays, mission string
	err := row.Scan(
		&a.ID, &a.UserID, &a.Hour, &a.Minute, &a.Label,
		&weekdays, &mission, &a.Enabled, &a.SoundRef, &a.UseCustomSentence, &a.CreatedAt,
	)
	if err != nil {
		return models.Alarm{}, err
	}
	a.Weekdays = models.DecodeWeekdays(weekdays)
	kind, err := models.ParseMissionKind(mission)
	if err != nil {
		// Tolerate unknown mission labels from older rows.
		kind = models.MissionNone
	}
	a.Mission = kind
	return a, nil
}

func (s *Store) GetAlarm(id, userID int) (models.Alarm, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, hour, minute, label, weekdays, mission, enabled, sound_ref, use_custom_sentence, created_at
		FROM alarms WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	return scanAlarm(row)
}

// UpsertAlarm inserts the alarm when its id is zero, otherwise updates it in
// place. The assigned id is written back on insert.
func (s *Store) UpsertAlarm(a *models.Alarm) error {
	if a.ID == 0 {
		res, err := s.db.Exec(
			`INSERT INTO alarms (user_id, hour, minute, label, weekdays, mission, enabled, sound_ref, use_custom_sentence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.UserID, a.Hour, a.Minute, a.Label,
			models.EncodeWeekdays(a.Weekdays), a.Mission.String(),
			a.Enabled, a.SoundRef, a.UseCustomSentence,
		)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()
		a.ID = int(id)
		return nil
	}
	_, err := s.db.Exec(
		`UPDATE alarms SET hour = ?, minute = ?, label = ?, weekdays = ?, mission = ?, enabled = ?, sound_ref = ?, use_custom_sentence = ?
		WHERE id = ? AND user_id = ?`,
		a.Hour, a.Minute, a.Label,
		models.EncodeWeekdays(a.Weekdays), a.Mission.String(),
		a.Enabled, a.SoundRef, a.UseCustomSentence,
		a.ID, a.UserID,
	)
	return err
}

// DisableAlarm flips an alarm off after it fired. Unknown ids are a no-op:
// ephemeral snooze alarms fire through the same path but have no row.
func (s *Store) DisableAlarm(id, userID int) error {
	_, err := s.db.Exec(
		"UPDATE alarms SET enabled = 0 WHERE id = ? AND user_id = ?",
		id, userID,
	)
	return err
}

func (s *Store) DeleteAlarm(id, userID int) error {
	res, err := s.db.Exec("DELETE FROM alarms WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// === Wake history ===

func (s *Store) AppendHistory(r *models.WakeRecord) error {
	res, err := s.db.Exec(
		`INSERT INTO wake_history (user_id, timestamp_millis, date, time, mission_label)
		VALUES (?, ?, ?, ?, ?)`,
		r.UserID, r.TimestampMillis, r.Date, r.Time, r.MissionLabel,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	r.ID = int(id)
	return nil
}

func (s *Store) ListHistory(userID int) ([]models.WakeRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, timestamp_millis, date, time, mission_label
		FROM wake_history WHERE user_id = ? ORDER BY timestamp_millis DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.WakeRecord{}
	for rows.Next() {
		var r models.WakeRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.TimestampMillis, &r.Date, &r.Time, &r.MissionLabel); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) ClearHistory(userID int) error {
	_, err := s.db.Exec("DELETE FROM wake_history WHERE user_id = ?", userID)
	return err
}

// === Custom sentences ===

func (s *Store) AppendCustomSentence(userID int, text string) (models.CustomSentence, error) {
	res, err := s.db.Exec(
		"INSERT INTO custom_sentences (user_id, text) VALUES (?, ?)",
		userID, text,
	)
	if err != nil {
		return models.CustomSentence{}, err
	}
	id, _ := res.LastInsertId()
	return models.CustomSentence{ID: int(id), UserID: userID, Text: text}, nil
}

func (s *Store) ListCustomSentences(userID int) ([]models.CustomSentence, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, text FROM custom_sentences WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sentences := []models.CustomSentence{}
	for rows.Next() {
		var cs models.CustomSentence
		if err := rows.Scan(&cs.ID, &cs.UserID, &cs.Text); err != nil {
			return nil, err
		}
		sentences = append(sentences, cs)
	}
	return sentences, rows.Err()
}

func (s *Store) ClearCustomSentences(userID int) error {
	_, err := s.db.Exec("DELETE FROM custom_sentences WHERE user_id = ?", userID)
	return err
}

// === Settings ===

const (
	settingDifficulty = "mission_difficulty"
	settingSleepGoal  = "sleep_goal"
)

// GetSettings returns the user's preferences, falling back to defaults
// (difficulty hard, goal 8h) for keys never written.
func (s *Store) GetSettings(userID int) (models.Settings, error) {
	settings := models.Settings{Difficulty: models.Hard, SleepGoalHours: 8}

	rows, err := s.db.Query("SELECT key, value FROM settings WHERE user_id = ?", userID)
	if err != nil {
		return settings, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings, err
		}
		switch key {
		case settingDifficulty:
			settings.Difficulty = models.ParseDifficulty(value)
		case settingSleepGoal:
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				settings.SleepGoalHours = n
			}
		}
	}
	return settings, rows.Err()
}

func (s *Store) SetDifficulty(userID int, d models.Difficulty) error {
	return s.setSetting(userID, settingDifficulty, d.String())
}

func (s *Store) SetSleepGoal(userID, hours int) error {
	if hours <= 0 {
		return fmt.Errorf("sleep goal must be positive, got %d", hours)
	}
	return s.setSetting(userID, settingSleepGoal, strconv.Itoa(hours))
}

func (s *Store) setSetting(userID int, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (user_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value`,
		userID, key, value,
	)
	return err
}

// === Push subscriptions ===

func (s *Store) AddPushSubscription(sub models.PushSubscription) error {
	_, err := s.db.Exec(
		`INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, endpoint) DO UPDATE SET p256dh = excluded.p256dh, auth = excluded.auth`,
		sub.UserID, sub.Endpoint, sub.P256dh, sub.Auth,
	)
	return err
}

func (s *Store) RemovePushSubscription(userID int, endpoint string) error {
	_, err := s.db.Exec(
		"DELETE FROM push_subscriptions WHERE user_id = ? AND endpoint = ?",
		userID, endpoint,
	)
	return err
}

func (s *Store) RemovePushEndpoint(endpoint string) error {
	_, err := s.db.Exec("DELETE FROM push_subscriptions WHERE endpoint = ?", endpoint)
	return err
}

func (s *Store) ListPushSubscriptions(userID int) ([]models.PushSubscription, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, endpoint, p256dh, auth FROM push_subscriptions WHERE user_id = ?",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []models.PushSubscription{}
	for rows.Next() {
		var sub models.PushSubscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Endpoint, &sub.P256dh, &sub.Auth); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
