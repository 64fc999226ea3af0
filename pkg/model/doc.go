// Package model contains the GORM database models for the blog platform.
package model
