// Package client provides functionality for downloading, verifying, and
// installing the vendor catalog client (cmsl) that paqman wraps.
//
// # Security Model
//
// The vendor client fetches and executes driver installers, so its own
// provenance matters. Every release artifact is:
//   - Downloaded only from the pinned release endpoint
//   - Verified using a GPG signature (preferred) or SHA256 checksums
//     (fallback when no signature is published)
//   - Never installed without successful verification
//
// A published signature that fails verification is a hard error; the
// checksum fallback applies only when no signature is available at all.
//
// # Usage
//
//	mgr, err := client.NewManager(client.Config{
//	    PaqmanDir:    "/home/user/.config/paqman",
//	    PlatformInfo: platformInfo,
//	})
//	if err != nil {
//	    return err
//	}
//
//	if err := mgr.EnsureKeyring(); err != nil {
//	    return err
//	}
//
//	err = mgr.Install(ctx, client.DownloadOptions{
//	    Version: client.DefaultVersion,
//	})
//
// # Architecture
//
//   - Manager: orchestration of download, verify, install
//   - Downloader: HTTP download with retry logic, caching and progress
//   - Verifier: GPG and SHA256 verification
//   - Extractor: pulls the client binary out of tar.gz or zip releases
package client
