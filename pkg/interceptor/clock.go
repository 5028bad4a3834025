package interceptor

import "time"

// nowFunc is overridden in tests to control expiry comparisons
// deterministically instead of racing real wall-clock time.
var nowFunc = time.Now
