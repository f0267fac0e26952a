package main

type Config struct {
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath string `env:"BADGER_FILEPATH"`
	LimitMessages  *int   `env:"LIMIT_MESSAGES"`
	MessageTitle   string `env:"MESSAGE_TITLE,default=MESSAGE TITLE"`
	MessageText    string `env:"MESSAGE_TEXT,default=MESSAGE TEXT"`
	TitleThreshold int    `env:"TITLE_THRESHOLD,default=5"`
}
