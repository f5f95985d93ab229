// Package lib holds modules that do not fit strictly into the layered
// handler/service/repository structure: background job processing
// (Redis/Asynq) and the transactional email client (Resend).
package lib
