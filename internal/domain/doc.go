// Package domain contains the core business entities of the application:
// users and the refined prompts they save to their library. Entities validate
// themselves and are independent of any storage or delivery mechanism.
package domain
