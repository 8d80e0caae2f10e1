package app

import "errors"

var ErrNoCredential = errors.New("no api key saved")
