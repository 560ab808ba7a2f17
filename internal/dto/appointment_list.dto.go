package dto

import "time"

type AppointmentListDTO struct {
	ID          string    `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	PatientName string    `json:"patient_name"`
	Reason      string    `json:"reason"`
}
