// Package branches provides an HTTP client for a restaurant chain's reservation
// configuration: branches, their sections, and the tables within each section.
//
// Each level carries its own accepts_reservations flag. Nothing derives one
// level from another; turning a branch off leaves its tables untouched.
//
// # Reading
//
// FetchHierarchy returns the whole tree in one request:
//
//	client := branches.NewClient(branches.Config{
//	    BaseURL: "https://api.foodics.com/v5",
//	    Token:   token,
//	})
//
//	all, err := client.FetchHierarchy(ctx)
//	if err != nil {
//	    fmt.Println(branches.Classify(err))
//	    return
//	}
//
// # Updating
//
// UpdateBranch sends a partial body; only fields set in the patch change:
//
//	err := client.UpdateBranch(ctx, id, branches.BranchPatch{
//	    ReservationDuration: branches.Int(90),
//	})
//
// UpdateTable always sends the table's accepts_reservations flag.
//
// # Batches
//
// Coordinator.DisableAllBranches issues one update per branch concurrently and
// waits for every one to settle. A failure never stops the others, and
// successful updates are not rolled back:
//
//	result, err := client.DisableAllBranches(ctx, all)
//	var batchErr *branches.BatchError
//	if errors.As(err, &batchErr) {
//	    for _, o := range batchErr.Failures {
//	        fmt.Printf("%s: %s\n", o.ID, branches.Classify(o.Err))
//	    }
//	}
//	fmt.Printf("%d succeeded\n", len(result.Succeeded()))
//
// # Error Handling
//
// Every request failure is a *RequestError whose Kind separates transport
// failures (no response) from rejections (non-2xx). Classify turns any error
// into a user-facing message and returns the server's {message} verbatim when
// one was sent. Hints adds operator troubleshooting lines.
//
// There is no retry, caching or rollback in this package.
package branches
