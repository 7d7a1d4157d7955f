package postgres

const schema = `
CREATE TABLE IF NOT EXISTS specialties (
	id   BIGSERIAL PRIMARY KEY,
	name VARCHAR(128) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      VARCHAR(50) NOT NULL UNIQUE,
	email         VARCHAR(100) NOT NULL,
	password_hash TEXT NOT NULL,
	first_name    VARCHAR(50) NOT NULL,
	last_name     VARCHAR(50) NOT NULL,
	surname       VARCHAR(50),
	photo         TEXT NOT NULL DEFAULT '',
	speciality_id BIGINT NOT NULL REFERENCES specialties (id) ON DELETE RESTRICT,
	date_joined   TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_login    TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS passports (
	id              BIGSERIAL PRIMARY KEY,
	series_number   BIGINT NOT NULL,
	issued_by       VARCHAR(100) NOT NULL,
	issued_date     DATE NOT NULL,
	department_code INTEGER NOT NULL,
	first_name      VARCHAR(100) NOT NULL,
	last_name       VARCHAR(100) NOT NULL,
	surname         VARCHAR(100),
	gender          VARCHAR(10) NOT NULL,
	date_of_birth   DATE NOT NULL,
	birth_address   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS insurance_companies (
	id   BIGSERIAL PRIMARY KEY,
	name VARCHAR(200) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS insurance_policies (
	id           BIGSERIAL PRIMARY KEY,
	number       BIGINT NOT NULL UNIQUE,
	date_created DATE NOT NULL,
	date_expires DATE NOT NULL,
	company_id   BIGINT NOT NULL REFERENCES insurance_companies (id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS med_cards (
	id           BIGSERIAL PRIMARY KEY,
	date_created TIMESTAMPTZ NOT NULL DEFAULT now(),
	date_expires TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS patients (
	id                  BIGSERIAL PRIMARY KEY,
	first_name          VARCHAR(50) NOT NULL,
	last_name           VARCHAR(50) NOT NULL,
	surname             VARCHAR(50),
	gender              VARCHAR(6) NOT NULL DEFAULT 'male',
	address             TEXT NOT NULL,
	email               VARCHAR(250) NOT NULL,
	date_of_birth       DATE NOT NULL,
	passport_id         BIGINT NOT NULL UNIQUE REFERENCES passports (id) ON DELETE RESTRICT,
	insurance_policy_id BIGINT NOT NULL UNIQUE REFERENCES insurance_policies (id) ON DELETE RESTRICT,
	med_card_id         BIGINT NOT NULL UNIQUE REFERENCES med_cards (id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS diagnosis (
	id   BIGSERIAL PRIMARY KEY,
	name VARCHAR(150) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS visits (
	id            BIGSERIAL PRIMARY KEY,
	date_created  TIMESTAMPTZ NOT NULL DEFAULT now(),
	date_to_visit TIMESTAMPTZ NOT NULL,
	status        VARCHAR(50) NOT NULL DEFAULT 'opened',
	diagnosis_id  BIGINT NOT NULL REFERENCES diagnosis (id) ON DELETE RESTRICT,
	patient_id    BIGINT NOT NULL REFERENCES patients (id) ON DELETE RESTRICT,
	doctor_id     BIGINT NOT NULL REFERENCES users (id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS meetings (
	id           BIGSERIAL PRIMARY KEY,
	name         VARCHAR(256) NOT NULL,
	type         VARCHAR(100) NOT NULL,
	date_created TIMESTAMPTZ NOT NULL DEFAULT now(),
	doctor_id    BIGINT REFERENCES users (id) ON DELETE SET NULL,
	data         JSONB
);

CREATE TABLE IF NOT EXISTS meeting_patients (
	meeting_id BIGINT NOT NULL REFERENCES meetings (id) ON DELETE CASCADE,
	patient_id BIGINT NOT NULL REFERENCES patients (id) ON DELETE RESTRICT,
	PRIMARY KEY (meeting_id, patient_id)
);

CREATE INDEX IF NOT EXISTS idx_visits_doctor ON visits (doctor_id);
CREATE INDEX IF NOT EXISTS idx_visits_patient ON visits (patient_id);
CREATE INDEX IF NOT EXISTS idx_meetings_doctor ON meetings (doctor_id);
`
