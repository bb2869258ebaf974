package export

import (
	_ "image/gif"
	_ "image/jpeg"
)
