package config

import (
	"os"
	"strconv"
)

const DATABASE_TYPE = "FBENCH_DATABASE_TYPE"
const DATABASE_URL = "FBENCH_DATABASE_URL"
const DATABASE_SQLLITE_FILE_NAME = "FBENCH_DATABASE_SQLLITE_FILE_NAME"
const SERVER_WEB_PORT = "FBENCH_SERVER_WEB_PORT"
const WEB_SESSION_EXPIRY_HOURS = "FBENCH_WEB_SESSION_EXPIRY_HOURS"

const AI_BASE_URL = "FBENCH_AI_BASE_URL"
const AI_API_KEY = "FBENCH_AI_API_KEY"
const AI_MODEL = "FBENCH_AI_MODEL"

const UPLOADS_DIR = "FBENCH_UPLOADS_DIR"
const APPS_DIR = "FBENCH_APPS_DIR"

const DATABASE_TYPE_POSTGRES = "POSTGRES"
const DATABASE_TYPE_MYSQL = "MYSQL"
const DATABASE_TYPE_SQLLITE = "SQLLITE"

func GetSystemSettingInteger(settingKey string) int {
	val := GetSystemSettingString(settingKey)
	if val != "" {
		intValue, _ := strconv.Atoi(val)
		return intValue
	}
	return 0
}

func GetSystemSettingString(settingKey string) string {
	val := os.Getenv(settingKey)
	if val != "" {
		return val
	}
	if settingKey == SERVER_WEB_PORT {
		return "8080"
	}
	if settingKey == WEB_SESSION_EXPIRY_HOURS {
		return "12"
	}
	if settingKey == DATABASE_SQLLITE_FILE_NAME {
		return "./flowbench.db"
	}
	if settingKey == AI_MODEL {
		return "gpt-4o-mini"
	}
	if settingKey == UPLOADS_DIR {
		return "./data/uploads"
	}
	if settingKey == APPS_DIR {
		return "./data/apps"
	}
	return ""
}
