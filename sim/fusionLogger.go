package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type FusionLogger struct {
	f   *os.File
	h   []string
	fmt string
}

func NewFusionLogger(fn string, h ...string) (l FusionLogger) {
	l.h = h
	f, err := os.Create(fn)
	if err != nil {
		logrus.WithError(err).Fatal("sim: create log file")
	}
	l.f = f

	fmt.Fprint(l.f, strings.Join(l.h, ","), "\n")
	s := strings.Repeat("%f,", len(l.h))
	l.fmt = strings.Join([]string{s[:len(s)-1], "\n"}, "")
	return
}

func (l *FusionLogger) Log(v ...interface{}) {
	fmt.Fprintf(l.f, l.fmt, v...)
}

func (l *FusionLogger) Close() {
	l.f.Close()
}
