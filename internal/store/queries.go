package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

const submissionColumns = `
	id, name, description, condition, COALESCE(issues, 'None'),
	estimated_price, COALESCE(estimate_source, ''),
	image_url, image_urls,
	COALESCE(email, ''), COALESCE(phone, ''), phone_verified,
	COALESCE(address, ''), COALESCE(pickup_notes, ''),
	status, ebay_status, listing_error,
	listed_on_ebay, ebay_listing_id, ebay_offer_id, ebay_sku,
	ebay_optimized_images, listed_at,
	created_at, updated_at`

// Submission queries.
const (
	queryCreateSubmission = `
		INSERT INTO submissions (
			name, description, condition, issues, estimated_price,
			image_url, image_urls,
			email, phone, address, pickup_notes,
			status, created_at, updated_at
		) VALUES (
			@name, @description, @condition, @issues, @estimated_price,
			@image_url, @image_urls,
			@email, @phone, @address, @pickup_notes,
			'pending', now(), now()
		)
		RETURNING id, created_at, updated_at`

	queryGetSubmission = `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE id = $1`

	querySetStatus = `
		UPDATE submissions SET
			status = $2,
			updated_at = now()
		WHERE id = $1`

	queryUpdateEstimate = `
		UPDATE submissions SET
			estimated_price = $2,
			estimate_source = $3,
			updated_at = now()
		WHERE id = $1`

	querySetPhoneVerified = `
		UPDATE submissions SET
			phone_verified = true,
			updated_at = now()
		WHERE id = $1`
)

// Listing lifecycle queries. BeginListing only transitions rows that are
// pending or approved, so two concurrent attempts for the same id cannot
// both win.
const (
	queryBeginListing = `
		UPDATE submissions SET
			status = 'listing',
			ebay_status = 'processing',
			listing_error = NULL,
			updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'approved')`

	queryMarkListingFailed = `
		UPDATE submissions SET
			status = 'approved',
			ebay_status = 'failed',
			listing_error = $2,
			updated_at = now()
		WHERE id = $1`

	queryMarkListed = `
		UPDATE submissions SET
			status = 'listed',
			ebay_status = 'active',
			listing_error = NULL,
			listed_on_ebay = true,
			ebay_listing_id = @ebay_listing_id,
			ebay_offer_id = @ebay_offer_id,
			ebay_sku = @ebay_sku,
			ebay_optimized_images = @ebay_optimized_images,
			listed_at = @listed_at,
			updated_at = now()
		WHERE id = @id`

	queryRevertStaleListings = `
		UPDATE submissions SET
			status = 'approved',
			ebay_status = 'failed',
			listing_error = COALESCE(listing_error, 'listing attempt timed out'),
			updated_at = now()
		WHERE status = 'listing' AND updated_at < now() - $1::interval`
)

// Job run queries.
const (
	queryInsertJobRun = `
		INSERT INTO job_runs (job_name, started_at, status)
		VALUES ($1, now(), 'running')
		RETURNING id`

	queryCompleteJobRun = `
		UPDATE job_runs SET
			completed_at = now(),
			status = $2,
			error_text = NULLIF($3, ''),
			rows_affected = $4
		WHERE id = $1`

	queryListLatestJobRuns = `
		SELECT DISTINCT ON (job_name)
			id, job_name, started_at, completed_at, status,
			COALESCE(error_text, ''), rows_affected
		FROM job_runs
		ORDER BY job_name, started_at DESC`
)
